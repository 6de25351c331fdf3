package memory

import "context"

// Collection is a handle to a named document collection.
type Collection struct {
	ID   string
	Name string
}

// Store is the vector-store boundary used by the memory tool and the seeder.
type Store interface {
	GetOrCreateCollection(ctx context.Context, name string) (*Collection, error)
	// AddDocuments inserts texts under fresh ids. Zero texts is a no-op.
	AddDocuments(ctx context.Context, c *Collection, texts []string) error
	// Query returns up to k document texts, most similar first.
	Query(ctx context.Context, c *Collection, text string, k int) ([]string, error)
}

// SeedDocuments is the demo knowledge base loaded by cmd/populate-memory.
var SeedDocuments = []string{
	"Project BlueFox is a top-secret initiative scheduled for Q4.",
	"The project manager for BlueFox is Dr. Evelyn Reed.",
	"Project BlueFox focuses on developing a new type of quantum-resistant encryption algorithm.",
	"The budget allocated for Project BlueFox is $5 million.",
	"Key stakeholders for BlueFox include the Department of Innovation and a security agency.",
	"Initial prototypes for BlueFox are expected by the end of October.",
}
