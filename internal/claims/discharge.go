package claims

import (
	"context"

	"claim-backend/internal/llm"
)

// DischargeHandler extracts and validates hospital discharge summaries.
type DischargeHandler struct {
	llm llm.Client
}

// NewDischargeHandler constructs a DischargeHandler.
func NewDischargeHandler(client llm.Client) *DischargeHandler {
	return &DischargeHandler{llm: client}
}

// Process extracts the discharge field set and applies the discharge rules.
func (h *DischargeHandler) Process(ctx context.Context, doc ExtractedDocument) ProcessingResult {
	data, err := completeObject(ctx, h.llm, buildDischargePrompt(doc.Text))
	if err != nil {
		return failedResult(DocumentTypeDischargeSummary, doc, err)
	}
	rec := coerceDischargeRecord(data)
	return completedResult(DocumentTypeDischargeSummary, doc, data, validateDischarge(rec))
}

// validateDischarge applies the deterministic discharge-summary rules.
// The date-order check is a lexical comparison, which is chronologically
// correct for the ISO-8601 dates the extraction prompt requests.
func validateDischarge(rec DischargeRecord) []string {
	var errs []string

	if rec.PatientName == nil {
		errs = append(errs, "Patient name not found")
	}
	if rec.Diagnosis == nil {
		errs = append(errs, "Diagnosis not found")
	}
	if rec.AdmissionDate == nil {
		errs = append(errs, "Admission date not found")
	}
	if rec.DischargeDate == nil {
		errs = append(errs, "Discharge date not found")
	}
	if rec.AdmissionDate != nil && rec.DischargeDate != nil && *rec.AdmissionDate > *rec.DischargeDate {
		errs = append(errs, "Admission date is after discharge date")
	}

	return errs
}

var _ documentHandler = (*DischargeHandler)(nil)
