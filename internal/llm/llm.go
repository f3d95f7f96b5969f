// Package llm abstracts the structured extraction service: a prompt goes in,
// a best-effort JSON document comes out. Callers must treat malformed output
// as a recoverable per-call failure.
package llm

import (
	"context"
	"encoding/json"
)

// Client abstracts LLM providers for structured extraction.
type Client interface {
	Complete(ctx context.Context, prompt string) (json.RawMessage, error)
}
