package claims

import (
	"context"

	"claim-backend/internal/llm"
)

// BillHandler extracts and validates medical bill documents.
type BillHandler struct {
	llm llm.Client
}

// NewBillHandler constructs a BillHandler.
func NewBillHandler(client llm.Client) *BillHandler {
	return &BillHandler{llm: client}
}

// Process extracts the bill field set and applies the bill validation rules.
func (h *BillHandler) Process(ctx context.Context, doc ExtractedDocument) ProcessingResult {
	data, err := completeObject(ctx, h.llm, buildBillPrompt(doc.Text))
	if err != nil {
		return failedResult(DocumentTypeBill, doc, err)
	}
	rec := coerceBillRecord(data)
	return completedResult(DocumentTypeBill, doc, data, validateBill(data, rec))
}

// validateBill applies the deterministic bill rules. It is a pure function of
// the extracted payload; no external calls.
func validateBill(raw map[string]any, rec BillRecord) []string {
	var errs []string

	if rec.HospitalName == nil {
		errs = append(errs, "Hospital name not found")
	}
	if !hasValue(raw, "total_amount") {
		errs = append(errs, "Total amount not found")
	} else if rec.TotalAmount == nil {
		errs = append(errs, "Invalid total amount format")
	}
	if rec.DateOfService == nil {
		errs = append(errs, "Date of service not found")
	}

	return errs
}

var _ documentHandler = (*BillHandler)(nil)
