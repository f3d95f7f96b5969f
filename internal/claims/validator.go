package claims

import (
	"context"
	"encoding/json"
	"fmt"

	"claim-backend/internal/llm"
	"claim-backend/internal/shared/telemetry"
)

// Validator cross-checks the full set of processed documents for missing
// types and inter-document inconsistency.
type Validator struct {
	llm llm.Client
}

// NewValidator constructs a Validator.
func NewValidator(client llm.Client) *Validator {
	return &Validator{llm: client}
}

// Validate delegates semantic cross-document checks to the extraction
// service. Any service or parse failure degrades to validation_passed=false
// with the reason recorded; it never aborts the run.
func (v *Validator) Validate(ctx context.Context, results []ProcessingResult) ValidationResult {
	docs := make([]validationDocument, 0, len(results))
	for _, r := range results {
		docs = append(docs, validationDocument{
			Type:     r.Type,
			Filename: r.Filename,
			Data:     r.ExtractedData,
			Errors:   ensureStrings(r.ValidationErrors),
		})
	}

	raw, err := v.llm.Complete(ctx, buildValidationPrompt(docs))
	if err != nil {
		return validationFallback(fmt.Sprintf("Claim validation failed: %v", err))
	}

	var parsed struct {
		MissingDocuments  []string `json:"missing_documents"`
		Discrepancies     []string `json:"discrepancies"`
		DataQualityIssues []string `json:"data_quality_issues"`
		ValidationPassed  bool     `json:"validation_passed"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return validationFallback(fmt.Sprintf("Claim validation response was not valid JSON: %v", err))
	}

	return ValidationResult{
		MissingDocuments:  ensureStrings(parsed.MissingDocuments),
		Discrepancies:     ensureStrings(parsed.Discrepancies),
		DataQualityIssues: ensureStrings(parsed.DataQualityIssues),
		ValidationPassed:  parsed.ValidationPassed,
	}
}

func validationFallback(reason string) ValidationResult {
	telemetry.Error("validator.degraded", map[string]any{"reason": reason})
	return ValidationResult{
		MissingDocuments:  []string{},
		Discrepancies:     []string{},
		DataQualityIssues: []string{reason},
		ValidationPassed:  false,
	}
}
