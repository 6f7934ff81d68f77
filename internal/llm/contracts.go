package llm

import (
	"context"

	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
)

// Assistant is the optional capability used to cross-check or backfill
// fields the pattern rules missed. Implementations must never fail the
// pipeline: a broken reply yields an Enhancement carrying the error and the
// raw response, with the input fields returned unchanged.
type Assistant interface {
	Enhance(ctx context.Context, doc fields.DocumentFields) (fields.DocumentFields, Enhancement)
}

// Enhancement records what the assistant did for one document.
type Enhancement struct {
	Applied     bool
	MergedKeys  []string
	Err         string
	RawResponse string
}

// Client is the transport the Enhancer depends on; tests stub it.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NoopAssistant is the default when no assistant is configured.
type NoopAssistant struct{}

func (NoopAssistant) Enhance(_ context.Context, doc fields.DocumentFields) (fields.DocumentFields, Enhancement) {
	return doc, Enhancement{}
}
