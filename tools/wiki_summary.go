package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petasbytes/toolchat/internal/wiki"
)

type WikiSummarizer interface {
	Summary(ctx context.Context, topic string) (*wiki.Summary, error)
}

type WikipediaSummaryInput struct {
	Topic string `json:"topic" jsonschema_description:"The topic or article title to look up on Wikipedia (e.g., 'Albert Einstein')."`
}

// NewWikipediaSummaryDefinition builds getWikipediaSummary. Every failure is
// reported to the model as an {"error": ...} payload.
func NewWikipediaSummaryDefinition(w WikiSummarizer) ToolDefinition {
	return Define("getWikipediaSummary",
		"Get a short summary of a topic from Wikipedia. Use this for general knowledge about people, places, events, or concepts.",
		func(ctx context.Context, in WikipediaSummaryInput) (any, error) {
			ctx, cancel := lookupContext(ctx)
			defer cancel()
			s, err := w.Summary(ctx, in.Topic)
			switch {
			case errors.Is(err, wiki.ErrNotFound):
				return softError{Message: fmt.Sprintf("Could not find a Wikipedia article for '%s'.", in.Topic)}, nil
			case err != nil:
				return softError{Message: fmt.Sprintf("Failed to fetch Wikipedia summary for '%s': %v", in.Topic, err)}, nil
			}
			return s, nil
		})
}

// lookupContext ends the lookup ahead of the caller's deadline so a timeout
// is still reported as a soft payload.
func lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	margin := time.Until(deadline) / 5
	if margin > time.Second {
		margin = time.Second
	}
	return context.WithDeadline(ctx, deadline.Add(-margin))
}
