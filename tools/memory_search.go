package tools

import (
	"context"
	"sync"

	"github.com/petasbytes/toolchat/memory"
)

// MemoryStore is the part of memory.Store the search tool uses.
type MemoryStore interface {
	GetOrCreateCollection(ctx context.Context, name string) (*memory.Collection, error)
	Query(ctx context.Context, c *memory.Collection, text string, k int) ([]string, error)
}

const (
	DefaultMemoryResults = 3
	NoRelevantMemory     = "No relevant information found in memory."
)

type MemorySearchInput struct {
	Query string `json:"query" jsonschema_description:"The question or topic to search for in long-term memory."`
	Limit int    `json:"limit,omitempty" jsonschema_description:"Maximum number of documents to return (default 3)."`
}

type memoryMatches struct {
	Documents []string `json:"documents"`
}

type memoryResult struct {
	Result string `json:"result"`
}

// collectionHandle opens the collection on first use and reuses it afterwards.
type collectionHandle struct {
	store MemoryStore
	name  string

	mu  sync.Mutex
	col *memory.Collection
}

func (h *collectionHandle) get(ctx context.Context) (*memory.Collection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.col != nil {
		return h.col, nil
	}
	col, err := h.store.GetOrCreateCollection(ctx, h.name)
	if err != nil {
		return nil, err
	}
	h.col = col
	return col, nil
}

// NewMemorySearchDefinition builds searchMemory over the named collection.
// Store failures are returned as errors and end the turn.
func NewMemorySearchDefinition(store MemoryStore, collection string) ToolDefinition {
	h := &collectionHandle{store: store, name: collection}
	return Define("searchMemory",
		"Search the long-term memory for information relevant to a query. Use this to recall facts, project details, or past conversations.",
		func(ctx context.Context, in MemorySearchInput) (any, error) {
			col, err := h.get(ctx)
			if err != nil {
				return nil, err
			}
			k := in.Limit
			if k <= 0 {
				k = DefaultMemoryResults
			}
			docs, err := store.Query(ctx, col, in.Query, k)
			if err != nil {
				return nil, err
			}
			if len(docs) == 0 {
				return memoryResult{Result: NoRelevantMemory}, nil
			}
			return memoryMatches{Documents: docs}, nil
		})
}
