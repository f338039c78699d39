package llm

import (
	"context"
	"errors"
)

// ErrNoContent is returned when the provider answered but the response held
// no candidate text.
var ErrNoContent = errors.New("no text in model response")

// Generator abstracts a text generation provider used by the translator,
// interpreter and chat responder.
// Implementations must be concurrency-safe if used across goroutines.
type Generator interface {
	// Generate sends a single prompt and returns the first text part of the
	// first candidate.
	Generate(ctx context.Context, prompt string) (string, error)
	// SourceName returns a short provider label for logs (e.g., "Gemini").
	SourceName() string
}
