package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"claim-backend/internal/shared/workpool"
)

// fakeLLM routes prompts through a scripted function and counts calls.
type fakeLLM struct {
	calls int32
	fn    func(prompt string) (json.RawMessage, error)
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.fn(prompt)
}

func (f *fakeLLM) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func failingLLM(msg string) *fakeLLM {
	return &fakeLLM{fn: func(string) (json.RawMessage, error) {
		return nil, fmt.Errorf("%s", msg)
	}}
}

func staticLLM(payload string) *fakeLLM {
	return &fakeLLM{fn: func(string) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	}}
}

// scriptedClaimLLM answers every pipeline stage with consistent data for a
// bill, a discharge summary, and an ID card identified by filename.
func scriptedClaimLLM() *fakeLLM {
	return &fakeLLM{fn: func(prompt string) (json.RawMessage, error) {
		switch {
		case strings.Contains(prompt, "Classify this document as one of"):
			switch {
			case strings.Contains(prompt, "Filename: bill.pdf"):
				return json.RawMessage(`{"type":"bill","confidence":0.95,"reasoning":"itemized charges and totals"}`), nil
			case strings.Contains(prompt, "Filename: discharge.pdf"):
				return json.RawMessage(`{"type":"discharge_summary","confidence":0.9,"reasoning":"admission and discharge dates"}`), nil
			case strings.Contains(prompt, "Filename: card.pdf"):
				return json.RawMessage(`{"type":"id_card","confidence":0.85,"reasoning":"member and policy numbers"}`), nil
			default:
				return json.RawMessage(`{"type":"unknown","confidence":0.2,"reasoning":"no recognizable structure"}`), nil
			}
		case strings.Contains(prompt, "medical bill document"):
			if strings.Contains(prompt, "SECOND BILL") {
				return json.RawMessage(`{"hospital_name":"Second Hospital","total_amount":900,"date_of_service":"2024-04-12"}`), nil
			}
			return json.RawMessage(`{"hospital_name":"General Hospital","total_amount":12500.5,"date_of_service":"2024-04-10","patient_name":"Jane Roe","services":["MRI"],"insurance_id":"INS-1"}`), nil
		case strings.Contains(prompt, "discharge summary document"):
			return json.RawMessage(`{"patient_name":"Jane Roe","diagnosis":"Fracture","admission_date":"2024-04-01","discharge_date":"2024-04-10","treating_physician":"Dr. Lee","hospital_name":"General Hospital","procedures":["Cast"]}`), nil
		case strings.Contains(prompt, "insurance ID card document"):
			return json.RawMessage(`{"patient_name":"Jane Roe","insurance_id":"INS-1","policy_number":"POL-9","group_number":"G-2","effective_date":"2024-01-01","expiration_date":"2024-12-31"}`), nil
		case strings.Contains(prompt, "Check for:"):
			return json.RawMessage(`{"missing_documents":[],"discrepancies":[],"data_quality_issues":[],"validation_passed":true}`), nil
		case strings.Contains(prompt, "Decision criteria:"):
			return json.RawMessage(`{"status":"approved","reason":"All documents consistent","confidence":0.92,"recommended_actions":[]}`), nil
		}
		return nil, fmt.Errorf("unexpected prompt: %.60s", prompt)
	}}
}

// echoExtractor treats the raw bytes as the document text.
type echoExtractor struct {
	err error
}

func (e echoExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return string(data), nil
}

func newTestOrchestrator(t *testing.T, extractor TextExtractor, client *fakeLLM) *Orchestrator {
	t.Helper()
	extractPool := workpool.New(2)
	llmPool := workpool.New(2)
	t.Cleanup(extractPool.Shutdown)
	t.Cleanup(llmPool.Shutdown)
	return NewOrchestrator(extractor, client, extractPool, llmPool, nil)
}

func classifiedDoc(filename, text string, docType DocumentType, confidence float64) ExtractedDocument {
	return ExtractedDocument{
		Filename: filename,
		Text:     text,
		Size:     len(text),
		Classification: Classification{
			Type:       docType,
			Confidence: confidence,
			Reasoning:  "test",
		},
	}
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if strings.Contains(item, want) {
			return true
		}
	}
	return false
}
