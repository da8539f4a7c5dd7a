// Package extract defines the contract shared by the two extraction
// branches: the deterministic pattern matcher and the generative oracle.
package extract

import (
	"context"

	"github.com/eventhint/eventhint/internal/event"
)

// Extractor is one extraction branch. Implementations never return an
// error for "nothing found"; an empty slice is a valid result. Branch
// failures (oracle timeouts, transport errors) also degrade to an empty
// slice so the sibling branch can still carry the run.
type Extractor interface {
	Extract(ctx context.Context, text string, ec event.Context) ([]event.Candidate, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, text string, ec event.Context) ([]event.Candidate, error)

func (f ExtractorFunc) Extract(ctx context.Context, text string, ec event.Context) ([]event.Candidate, error) {
	return f(ctx, text, ec)
}
