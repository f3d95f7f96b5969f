package claims

import (
	"context"

	"claim-backend/internal/llm"
)

// IDCardHandler extracts and validates insurance ID cards.
type IDCardHandler struct {
	llm llm.Client
}

// NewIDCardHandler constructs an IDCardHandler.
func NewIDCardHandler(client llm.Client) *IDCardHandler {
	return &IDCardHandler{llm: client}
}

// Process extracts the ID-card field set and applies the ID-card rules.
func (h *IDCardHandler) Process(ctx context.Context, doc ExtractedDocument) ProcessingResult {
	data, err := completeObject(ctx, h.llm, buildIDCardPrompt(doc.Text))
	if err != nil {
		return failedResult(DocumentTypeIDCard, doc, err)
	}
	rec := coerceIDCardRecord(data)
	return completedResult(DocumentTypeIDCard, doc, data, validateIDCard(rec))
}

// validateIDCard applies the deterministic ID-card rules.
func validateIDCard(rec IDCardRecord) []string {
	var errs []string

	if rec.PatientName == nil {
		errs = append(errs, "Patient name not found")
	}
	if rec.InsuranceID == nil {
		errs = append(errs, "Insurance ID not found")
	}
	if rec.PolicyNumber == nil {
		errs = append(errs, "Policy number not found")
	}

	return errs
}

var _ documentHandler = (*IDCardHandler)(nil)
