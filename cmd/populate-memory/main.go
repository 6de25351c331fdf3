// Command populate-memory loads the demo knowledge base into the vector store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petasbytes/toolchat/internal/config"
	"github.com/petasbytes/toolchat/internal/embedding"
	"github.com/petasbytes/toolchat/memory"
)

func main() {
	cfg := config.Load()
	emb, err := embedding.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := memory.NewChroma(cfg.ChromaURL, cfg.ChromaTenant, cfg.ChromaDatabase, emb)

	fmt.Println("Accessing memory collection...")
	col, err := store.GetOrCreateCollection(ctx, cfg.MemoryCollection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Populating agent's memory with new knowledge...")
	if err := store.AddDocuments(ctx, col, memory.SeedDocuments); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Memory populated: added %d new documents to %q.\n", len(memory.SeedDocuments), col.Name)
}
