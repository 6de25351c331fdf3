// Package provider adapts hosted model APIs to the chat history model.
package provider

import (
	"context"
	"fmt"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/config"
	"github.com/petasbytes/toolchat/tools"
)

const defaultMaxTokens = 1024

// Model sends one request and returns the model's reply.
type Model interface {
	Send(ctx context.Context, req Request) (*Reply, error)
}

type Request struct {
	System    string
	Messages  []chat.Message
	Tools     []tools.ToolDefinition
	MaxTokens int
	// OnText, when set, receives reply text as it is produced.
	OnText func(string)
}

type Reply struct {
	Text       string
	ToolCalls  []chat.ToolCall
	StopReason string
}

// Message converts the reply into its history form.
func (r *Reply) Message() chat.Message {
	return chat.ModelReply(r.Text, r.ToolCalls)
}

// ServiceError wraps a failure reported by (or on the way to) a model API.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// New builds the model selected by cfg.LLMProvider.
func New(cfg *config.Config) (Model, error) {
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicKey, cfg.LLMModel), nil
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIKey, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}
}

func maxTokens(n int) int64 {
	if n <= 0 {
		return defaultMaxTokens
	}
	return int64(n)
}

func argsOrEmpty(args []byte) []byte {
	if len(args) == 0 || string(args) == "null" {
		return []byte("{}")
	}
	return args
}
