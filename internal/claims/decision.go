package claims

import (
	"context"
	"encoding/json"
	"fmt"

	"claim-backend/internal/llm"
	"claim-backend/internal/shared/telemetry"
)

// DecisionEngine derives the final claim status from the processed documents
// and the validation result.
type DecisionEngine struct {
	llm llm.Client
}

// NewDecisionEngine constructs a DecisionEngine.
func NewDecisionEngine(client llm.Client) *DecisionEngine {
	return &DecisionEngine{llm: client}
}

// Decide delegates the decision to the extraction service with the policy
// encoded in the prompt. Any failure degrades to requires_review with zero
// confidence; the decision is safety-biased, never silently approving.
func (d *DecisionEngine) Decide(ctx context.Context, results []ProcessingResult, validation ValidationResult) ClaimDecision {
	docs := make([]decisionDocument, 0, len(results))
	for _, r := range results {
		docs = append(docs, decisionDocument{
			Type:     r.Type,
			Filename: r.Filename,
			Data:     r.ExtractedData,
			Status:   r.ProcessingStatus,
		})
	}

	raw, err := d.llm.Complete(ctx, buildDecisionPrompt(docs, validation))
	if err != nil {
		return decisionFallback(fmt.Sprintf("Decision making failed: %v", err))
	}

	var parsed struct {
		Status             string   `json:"status"`
		Reason             string   `json:"reason"`
		Confidence         float64  `json:"confidence"`
		RecommendedActions []string `json:"recommended_actions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return decisionFallback(fmt.Sprintf("Decision response was not valid JSON: %v", err))
	}

	status, ok := ParseClaimStatus(parsed.Status)
	reason := parsed.Reason
	if reason == "" {
		reason = "Decision could not be determined"
	}
	if !ok {
		reason = fmt.Sprintf("Unrecognized decision status %q; defaulting to review. %s", parsed.Status, reason)
	}

	return ClaimDecision{
		Status:             status,
		Reason:             reason,
		Confidence:         clamp01(parsed.Confidence),
		RecommendedActions: ensureStrings(parsed.RecommendedActions),
	}
}

func decisionFallback(reason string) ClaimDecision {
	telemetry.Error("decision.degraded", map[string]any{"reason": reason})
	return ClaimDecision{
		Status:             ClaimRequiresReview,
		Reason:             reason,
		Confidence:         0,
		RecommendedActions: []string{"Manual review required"},
	}
}
