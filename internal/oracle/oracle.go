// Package oracle wraps the text/vision generation providers behind one
// interface. Adapters normalize each provider's response shape; callers
// only ever see Result.
package oracle

import (
	"context"
)

// Result is a normalized generation outcome. OK is false when the
// provider returned an empty or unusable completion.
type Result struct {
	Text string
	OK   bool
}

type Oracle interface {
	// Generate produces a single text completion. Single attempt, no
	// retry, no timeout beyond what the context carries.
	Generate(ctx context.Context, prompt string) (Result, error)

	// GenerateVision produces a completion grounded on an image.
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (Result, error)
}
