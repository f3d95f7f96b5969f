package claims

import (
	"context"
	"fmt"

	"claim-backend/internal/llm"
)

// documentHandler processes one classified document into its ProcessingResult.
// Implementations must not fail: every error is absorbed into the result.
type documentHandler interface {
	Process(ctx context.Context, doc ExtractedDocument) ProcessingResult
}

// completeObject runs one extraction call and coerces the payload into a
// loose JSON object. Service errors and malformed payloads come back as
// ordinary errors for the handler to absorb.
func completeObject(ctx context.Context, client llm.Client, prompt string) (map[string]any, error) {
	raw, err := client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}

// failedResult builds the degraded result for a handler-level failure:
// empty data, failed status, the error as the single validation entry.
func failedResult(docType DocumentType, doc ExtractedDocument, err error) ProcessingResult {
	return ProcessingResult{
		Type:                     docType,
		Filename:                 doc.Filename,
		ExtractedData:            map[string]any{},
		ValidationErrors:         []string{fmt.Sprintf("Processing error: %v", err)},
		ProcessingStatus:         StatusFailed,
		ClassificationConfidence: doc.Classification.Confidence,
	}
}

// completedResult builds the result for a successful extraction; status
// depends on whether validation found issues.
func completedResult(docType DocumentType, doc ExtractedDocument, data map[string]any, validationErrors []string) ProcessingResult {
	status := StatusCompleted
	if len(validationErrors) > 0 {
		status = StatusCompletedWithWarnings
	}
	return ProcessingResult{
		Type:                     docType,
		Filename:                 doc.Filename,
		ExtractedData:            data,
		ValidationErrors:         ensureStrings(validationErrors),
		ProcessingStatus:         status,
		ClassificationConfidence: doc.Classification.Confidence,
	}
}

// skippedResult is synthesized for documents whose type has no registered
// handler; they bypass extraction entirely.
func skippedResult(doc ExtractedDocument) ProcessingResult {
	return ProcessingResult{
		Type:                     DocumentTypeUnknown,
		Filename:                 doc.Filename,
		ExtractedData:            map[string]any{},
		ValidationErrors:         []string{"Unknown document type"},
		ProcessingStatus:         StatusSkipped,
		ClassificationConfidence: doc.Classification.Confidence,
	}
}
