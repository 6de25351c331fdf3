// Package config loads runtime settings from the environment (and an optional .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	EmbeddingOpenAI = "openai"
	EmbeddingHTTP   = "http"
)

type Config struct {
	LLMProvider  string // anthropic, openai
	AnthropicKey string
	OpenAIKey    string
	LLMModel     string
	MaxTokens    int

	ChromaURL        string
	ChromaTenant     string
	ChromaDatabase   string
	MemoryCollection string

	EmbeddingProvider string // openai, http
	EmbeddingURL      string
	EmbeddingKey      string
	EmbeddingModel    string

	WikipediaURL string

	MaxToolRounds int
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration
	TokenBudget   int
	Stream        bool

	// parse problems are reported by Validate so Load never fails
	problems []string
}

// Error reports a configuration problem that prevents the chat from starting.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "config: " + strings.Join(e.Problems, "; ")
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	c := &Config{
		LLMProvider:  strings.ToLower(envOr("LLM_PROVIDER", ProviderAnthropic)),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		LLMModel:     os.Getenv("LLM_MODEL"),

		ChromaURL:        envOr("CHROMA_URL", "http://localhost:8000"),
		ChromaTenant:     envOr("CHROMA_TENANT", "default_tenant"),
		ChromaDatabase:   envOr("CHROMA_DATABASE", "default_database"),
		MemoryCollection: envOr("MEMORY_COLLECTION", "agent-memory"),

		EmbeddingProvider: strings.ToLower(envOr("EMBEDDING_PROVIDER", EmbeddingOpenAI)),
		EmbeddingURL:      os.Getenv("EMBEDDING_URL"),
		EmbeddingKey:      envOr("EMBEDDING_API_KEY", os.Getenv("OPENAI_API_KEY")),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", "text-embedding-3-small"),

		WikipediaURL: envOr("WIKIPEDIA_URL", "https://en.wikipedia.org/api/rest_v1"),
	}
	c.MaxTokens = c.intVar("LLM_MAX_TOKENS", 1024)
	c.MaxToolRounds = c.intVar("AGT_MAX_TOOL_ROUNDS", 10)
	c.TokenBudget = c.intVar("AGT_TOKEN_BUDGET", 0)
	c.ModelTimeout = c.durationVar("AGT_MODEL_TIMEOUT", 60*time.Second)
	c.ToolTimeout = c.durationVar("AGT_TOOL_TIMEOUT", 15*time.Second)
	c.Stream = envOr("AGT_STREAM", "1") == "1"
	return c
}

// Validate checks everything the chat loop needs before it starts.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.problems...)
	switch c.LLMProvider {
	case ProviderAnthropic:
		if c.AnthropicKey == "" {
			problems = append(problems, "API key not found: set ANTHROPIC_API_KEY")
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			problems = append(problems, "API key not found: set OPENAI_API_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.MaxToolRounds <= 0 {
		problems = append(problems, "AGT_MAX_TOOL_ROUNDS must be positive")
	}
	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

// APIKey returns the credential of the selected model provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.AnthropicKey
}

func (c *Config) intVar(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s %q", key, v))
		return fallback
	}
	return n
}

func (c *Config) durationVar(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s %q", key, v))
		return fallback
	}
	return d
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
