package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/config"
	"github.com/petasbytes/toolchat/internal/embedding"
	"github.com/petasbytes/toolchat/internal/provider"
	"github.com/petasbytes/toolchat/internal/runner"
	"github.com/petasbytes/toolchat/internal/wiki"
	"github.com/petasbytes/toolchat/memory"
	"github.com/petasbytes/toolchat/tools"
)

const systemPrompt = "You are a helpful assistant with access to tools. " +
	"Call a tool whenever it can answer part of the question, and base your reply on its results."

type lineKind int

const (
	lineMessage lineKind = iota
	lineBlank
	lineExit
)

// classifyLine recognises the exit command (any case, surrounding space
// ignored) and blank lines. Everything else is sent to the model as typed.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.EqualFold(trimmed, "exit"):
		return lineExit
	}
	return lineMessage
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	model, err := provider.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	deps := tools.Deps{
		Collection: cfg.MemoryCollection,
		Wiki:       wiki.NewClient(cfg.WikipediaURL),
	}
	if emb, err := embedding.New(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: memory search disabled: %v\n", err)
	} else {
		deps.Memory = memory.NewChroma(cfg.ChromaURL, cfg.ChromaTenant, cfg.ChromaDatabase, emb)
	}
	reg, err := tools.Default(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	opts := runner.Options{
		MaxRounds:    cfg.MaxToolRounds,
		ModelTimeout: cfg.ModelTimeout,
		ToolTimeout:  cfg.ToolTimeout,
		TokenBudget:  cfg.TokenBudget,
		System:       systemPrompt,
		MaxTokens:    cfg.MaxTokens,
	}
	if cfg.Stream {
		opts.OnText = func(s string) { fmt.Print(s) }
	}
	r := runner.New(model, reg, opts)
	sess := chat.NewSession()

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	fmt.Println("Agent successfully configured!")
	fmt.Println("\n--- AI Agent Started ---")
	fmt.Println("Type 'exit' to quit.")

	// stdin reader goroutine -> lines into channel
	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\nYou: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}

		switch classifyLine(user) {
		case lineExit:
			fmt.Println("Good bye!")
			break outer
		case lineBlank:
			continue
		}

		fmt.Print("Agent: ")
		answer, err := r.RunTurn(ctx, sess, user)
		if err != nil {
			fmt.Println()
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if !cfg.Stream {
			fmt.Print(answer)
		}
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
