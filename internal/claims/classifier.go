package claims

import (
	"context"
	"encoding/json"
	"fmt"

	"claim-backend/internal/llm"
	"claim-backend/internal/shared/telemetry"
)

// Classifier decides a document's category from its text and filename.
type Classifier struct {
	llm llm.Client
}

// NewClassifier constructs a Classifier backed by the given extraction client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{llm: client}
}

// Classify never fails: any service or parse error degrades to an unknown
// classification carrying the error as reasoning.
func (c *Classifier) Classify(ctx context.Context, text, filename string) Classification {
	raw, err := c.llm.Complete(ctx, buildClassifyPrompt(text, filename))
	if err != nil {
		telemetry.Error("classifier.call_failed", map[string]any{
			"filename": filename,
			"error":    err.Error(),
		})
		return Classification{
			Type:       DocumentTypeUnknown,
			Confidence: 0,
			Reasoning:  fmt.Sprintf("Classification failed: %v", err),
		}
	}

	var parsed struct {
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		telemetry.Error("classifier.parse_failed", map[string]any{
			"filename": filename,
			"error":    err.Error(),
		})
		return Classification{
			Type:       DocumentTypeUnknown,
			Confidence: 0,
			Reasoning:  fmt.Sprintf("Classification response was not valid JSON: %v", err),
		}
	}

	result := Classification{
		Type:       ParseDocumentType(parsed.Type),
		Confidence: clamp01(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
	}
	telemetry.Debug("classifier.result", map[string]any{
		"filename":   filename,
		"type":       string(result.Type),
		"confidence": result.Confidence,
	})
	return result
}
