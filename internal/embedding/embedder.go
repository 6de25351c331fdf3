// Package embedding turns text into vectors for the memory store.
package embedding

import (
	"context"
	"fmt"

	"github.com/petasbytes/toolchat/internal/config"
)

// Kind tells asymmetric embedding models which side of a search the text is on.
type Kind string

const (
	KindQuery    Kind = "query"
	KindDocument Kind = "document"
)

// Embedder returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string, kind Kind) ([][]float32, error)
}

// New builds the embedder selected by cfg.EmbeddingProvider.
func New(cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingOpenAI, "":
		if cfg.EmbeddingKey == "" {
			return nil, fmt.Errorf("embedding: API key not found: set EMBEDDING_API_KEY or OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.EmbeddingKey, cfg.EmbeddingModel), nil
	case config.EmbeddingHTTP:
		if cfg.EmbeddingURL == "" {
			return nil, fmt.Errorf("embedding: EMBEDDING_URL not set")
		}
		return NewHTTP(cfg.EmbeddingURL, cfg.EmbeddingKey, 0), nil
	default:
		return nil, fmt.Errorf("embedding: unknown EMBEDDING_PROVIDER %q", cfg.EmbeddingProvider)
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
