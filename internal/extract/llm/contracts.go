// Package llm is the generative extraction branch: one oracle call under
// a fixed JSON contract, validated field-by-field so a single malformed
// event never discards the whole response.
package llm

import "context"

// Request is one structured-output completion request. The schema is
// owned by this package; the oracle only has to honor it.
type Request struct {
	System string
	User   string
	Schema map[string]any
}

// Oracle is the generative collaborator behind the extraction branch.
// Complete returns the raw JSON content of the completion.
type Oracle interface {
	Complete(ctx context.Context, req Request) ([]byte, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, req Request) ([]byte, error)

func (f OracleFunc) Complete(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
