package claims

import (
	"context"
	"fmt"
	"sync"
	"time"

	"claim-backend/internal/llm"
	"claim-backend/internal/shared/metrics"
	"claim-backend/internal/shared/telemetry"
	"claim-backend/internal/shared/workpool"
)

// TextExtractor converts one document's raw bytes to plain text. Any error
// means "text absent"; the pipeline degrades, it never aborts.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Orchestrator owns the claim pipeline: stage sequencing, fan-out/join,
// partial-failure containment, and response assembly. Blocking collaborator
// calls run on two injected bounded pools, one sized for text extraction and
// one sized for LLM concurrency.
type Orchestrator struct {
	extractor  TextExtractor
	classifier *Classifier
	bill       documentHandler
	discharge  documentHandler
	idCard     documentHandler
	validator  *Validator
	decider    *DecisionEngine

	extractPool *workpool.Pool
	llmPool     *workpool.Pool
	metrics     *metrics.Metrics
}

// NewOrchestrator wires the pipeline components around the given extraction
// service client and worker pools. metrics may be nil.
func NewOrchestrator(extractor TextExtractor, client llm.Client, extractPool, llmPool *workpool.Pool, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		extractor:   extractor,
		classifier:  NewClassifier(client),
		bill:        NewBillHandler(client),
		discharge:   NewDischargeHandler(client),
		idCard:      NewIDCardHandler(client),
		validator:   NewValidator(client),
		decider:     NewDecisionEngine(client),
		extractPool: extractPool,
		llmPool:     llmPool,
		metrics:     m,
	}
}

// handlerFor routes a classified type to its handler. The switch is
// exhaustive over the closed DocumentType set; nil means the document is
// synthesized as skipped instead of dispatched.
func (o *Orchestrator) handlerFor(t DocumentType) documentHandler {
	switch t {
	case DocumentTypeBill:
		return o.bill
	case DocumentTypeDischargeSummary:
		return o.discharge
	case DocumentTypeIDCard:
		return o.idCard
	case DocumentTypeUnknown:
		return nil
	default:
		return nil
	}
}

// ProcessClaim runs the full pipeline over one claim's documents. It never
// returns an error: per-document and per-stage failures degrade in place,
// and anything escaping those containment boundaries is caught here and
// converted into a requires_review response.
func (o *Orchestrator) ProcessClaim(ctx context.Context, files []RawDocument) (resp ClaimProcessingResponse) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("orchestrator.panic", map[string]any{"error": fmt.Sprint(rec)})
			resp = failureResponse(fmt.Sprintf("Processing error: %v", rec), time.Since(start))
		}
	}()

	telemetry.Info("claim.start", map[string]any{"file_count": len(files)})

	docs := o.extractTexts(ctx, files)
	o.classifyDocuments(ctx, docs)
	results := o.processDocuments(ctx, docs)
	validation := o.validateClaim(ctx, results)
	decision := o.decideClaim(ctx, results, validation)

	resp = o.assemble(results, validation, decision, start)

	o.metrics.RecordClaim(string(decision.Status), time.Since(start))
	for _, r := range results {
		o.metrics.RecordDocument(string(r.Type), string(r.ProcessingStatus))
	}

	telemetry.Info("claim.complete", map[string]any{
		"file_count":      len(files),
		"decision":        string(decision.Status),
		"processing_time": resp.ProcessingTime,
	})
	return resp
}

// extractTexts runs stage 1: concurrent text extraction with a join barrier.
// A single document's failure degrades it to empty text.
func (o *Orchestrator) extractTexts(ctx context.Context, files []RawDocument) []ExtractedDocument {
	docs := make([]ExtractedDocument, len(files))
	var wg sync.WaitGroup
	for i := range files {
		i := i
		file := files[i]
		wg.Add(1)
		o.extractPool.Submit(func() {
			defer wg.Done()
			text, err := o.extractor.ExtractText(ctx, file.Data)
			if err != nil {
				telemetry.Info("extract.no_text", map[string]any{
					"filename": file.Filename,
					"error":    err.Error(),
				})
				text = ""
			}
			docs[i] = ExtractedDocument{
				Filename: file.Filename,
				Text:     text,
				Size:     file.Size,
			}
		})
	}
	wg.Wait()
	return docs
}

// classifyDocuments runs stage 2: concurrent classification with a join
// barrier. The classifier itself absorbs all failures.
func (o *Orchestrator) classifyDocuments(ctx context.Context, docs []ExtractedDocument) {
	var wg sync.WaitGroup
	for i := range docs {
		i := i
		wg.Add(1)
		o.llmPool.Submit(func() {
			defer wg.Done()
			docs[i].Classification = o.classifier.Classify(ctx, docs[i].Text, docs[i].Filename)
		})
	}
	wg.Wait()
}

// processDocuments runs stage 3: route by type, dispatch concurrently, join.
// Unrouted types are synthesized as skipped without spending an LLM call. A
// handler panic degrades only that document's result.
func (o *Orchestrator) processDocuments(ctx context.Context, docs []ExtractedDocument) []ProcessingResult {
	results := make([]ProcessingResult, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		i := i
		doc := docs[i]
		handler := o.handlerFor(doc.Classification.Type)
		if handler == nil {
			results[i] = skippedResult(doc)
			continue
		}
		wg.Add(1)
		o.llmPool.Submit(func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					telemetry.Error("handler.panic", map[string]any{
						"filename": doc.Filename,
						"type":     string(doc.Classification.Type),
						"error":    fmt.Sprint(rec),
					})
					results[i] = failedResult(doc.Classification.Type, doc, fmt.Errorf("handler panic: %v", rec))
				}
			}()
			results[i] = handler.Process(ctx, doc)
		})
	}
	wg.Wait()
	return results
}

// validateClaim runs stage 4 on the LLM pool as a single batch call.
func (o *Orchestrator) validateClaim(ctx context.Context, results []ProcessingResult) ValidationResult {
	var validation ValidationResult
	var wg sync.WaitGroup
	wg.Add(1)
	o.llmPool.Submit(func() {
		defer wg.Done()
		validation = o.validator.Validate(ctx, results)
	})
	wg.Wait()
	return validation
}

// decideClaim runs stage 5 on the LLM pool as a single call.
func (o *Orchestrator) decideClaim(ctx context.Context, results []ProcessingResult, validation ValidationResult) ClaimDecision {
	var decision ClaimDecision
	var wg sync.WaitGroup
	wg.Add(1)
	o.llmPool.Submit(func() {
		defer wg.Done()
		decision = o.decider.Decide(ctx, results, validation)
	})
	wg.Wait()
	return decision
}

// assemble runs stage 6: results are already in input order (disjoint slots
// indexed by position), the structured-data map is keyed by type with a
// last-write-wins policy, and unknown types are excluded from it.
func (o *Orchestrator) assemble(results []ProcessingResult, validation ValidationResult, decision ClaimDecision, start time.Time) ClaimProcessingResponse {
	structured := make(map[DocumentType]map[string]any)
	for _, r := range results {
		if r.Type != DocumentTypeUnknown {
			structured[r.Type] = r.ExtractedData
		}
	}
	return ClaimProcessingResponse{
		Documents:      results,
		StructuredData: structured,
		Validation:     validation,
		ClaimDecision:  decision,
		ProcessingTime: time.Since(start).Seconds(),
		ProcessedAt:    time.Now().UTC(),
	}
}

// failureResponse is the full-shaped response for a failure outside the
// per-document and per-stage containment boundaries.
func failureResponse(reason string, elapsed time.Duration) ClaimProcessingResponse {
	return ClaimProcessingResponse{
		Documents:      []ProcessingResult{},
		StructuredData: map[DocumentType]map[string]any{},
		Validation: ValidationResult{
			MissingDocuments:  []string{},
			Discrepancies:     []string{},
			DataQualityIssues: []string{reason},
			ValidationPassed:  false,
		},
		ClaimDecision: ClaimDecision{
			Status:             ClaimRequiresReview,
			Reason:             reason,
			Confidence:         0,
			RecommendedActions: []string{"Manual review required"},
		},
		ProcessingTime: elapsed.Seconds(),
		ProcessedAt:    time.Now().UTC(),
	}
}
