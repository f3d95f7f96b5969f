package claims

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func claimFiles() []RawDocument {
	docs := []struct{ name, text string }{
		{"bill.pdf", "HOSPITAL BILL total due 12500.50"},
		{"discharge.pdf", "DISCHARGE SUMMARY admitted 2024-04-01"},
		{"card.pdf", "INSURANCE CARD member INS-1"},
	}
	files := make([]RawDocument, 0, len(docs))
	for _, d := range docs {
		files = append(files, RawDocument{Filename: d.name, Data: []byte(d.text), Size: len(d.text)})
	}
	return files
}

func TestProcessClaimEndToEnd(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{}, scriptedClaimLLM())

	resp := o.ProcessClaim(context.Background(), claimFiles())

	if len(resp.Documents) != 3 {
		t.Fatalf("documents = %d, want 3", len(resp.Documents))
	}
	wantOrder := []struct {
		filename string
		docType  DocumentType
	}{
		{"bill.pdf", DocumentTypeBill},
		{"discharge.pdf", DocumentTypeDischargeSummary},
		{"card.pdf", DocumentTypeIDCard},
	}
	for i, want := range wantOrder {
		got := resp.Documents[i]
		if got.Filename != want.filename || got.Type != want.docType {
			t.Errorf("documents[%d] = %s/%s, want %s/%s", i, got.Filename, got.Type, want.filename, want.docType)
		}
		if got.ProcessingStatus != StatusCompleted {
			t.Errorf("documents[%d] status = %s, want completed", i, got.ProcessingStatus)
		}
	}

	for _, key := range []DocumentType{DocumentTypeBill, DocumentTypeDischargeSummary, DocumentTypeIDCard} {
		if _, ok := resp.StructuredData[key]; !ok {
			t.Errorf("structured_data missing %s", key)
		}
	}
	if !resp.Validation.ValidationPassed {
		t.Fatalf("validation = %+v, want passed", resp.Validation)
	}
	if resp.ClaimDecision.Status != ClaimApproved {
		t.Fatalf("decision = %s, want approved", resp.ClaimDecision.Status)
	}
	if resp.ProcessedAt.IsZero() {
		t.Fatal("processed_at not set")
	}
	if resp.ProcessingTime < 0 {
		t.Fatalf("processing_time = %v", resp.ProcessingTime)
	}
}

func TestProcessClaimUnknownDocumentSkipped(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{}, scriptedClaimLLM())

	files := []RawDocument{{Filename: "mystery.pdf", Data: []byte("gibberish"), Size: 9}}
	resp := o.ProcessClaim(context.Background(), files)

	if len(resp.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(resp.Documents))
	}
	got := resp.Documents[0]
	if got.Type != DocumentTypeUnknown || got.ProcessingStatus != StatusSkipped {
		t.Fatalf("result = %+v, want skipped unknown", got)
	}
	if !containsString(got.ValidationErrors, "Unknown document type") {
		t.Fatalf("validation errors = %v", got.ValidationErrors)
	}
	if len(resp.StructuredData) != 0 {
		t.Fatalf("structured_data = %v, want empty for unknown-only claim", resp.StructuredData)
	}
}

func TestProcessClaimExtractionFailureStillProcessed(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{err: errors.New("corrupt pdf")}, scriptedClaimLLM())

	files := []RawDocument{{Filename: "bill.pdf", Data: []byte("ignored"), Size: 7}}
	resp := o.ProcessClaim(context.Background(), files)

	if len(resp.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(resp.Documents))
	}
	got := resp.Documents[0]
	if got.Type != DocumentTypeBill {
		t.Fatalf("type = %s, want bill despite absent text", got.Type)
	}
	if got.ProcessingStatus != StatusCompleted {
		t.Fatalf("status = %s, want completed", got.ProcessingStatus)
	}
}

func TestProcessClaimHandlerPanicContained(t *testing.T) {
	scripted := scriptedClaimLLM()
	inner := scripted.fn
	scripted.fn = func(prompt string) (json.RawMessage, error) {
		if strings.Contains(prompt, "medical bill document") {
			panic("handler exploded")
		}
		return inner(prompt)
	}
	o := newTestOrchestrator(t, echoExtractor{}, scripted)

	files := []RawDocument{
		{Filename: "bill.pdf", Data: []byte("HOSPITAL BILL"), Size: 13},
		{Filename: "card.pdf", Data: []byte("INSURANCE CARD"), Size: 14},
	}
	resp := o.ProcessClaim(context.Background(), files)

	if len(resp.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(resp.Documents))
	}
	bill := resp.Documents[0]
	if bill.ProcessingStatus != StatusFailed {
		t.Fatalf("bill status = %s, want failed", bill.ProcessingStatus)
	}
	if !containsString(bill.ValidationErrors, "handler panic") {
		t.Fatalf("bill errors = %v", bill.ValidationErrors)
	}
	card := resp.Documents[1]
	if card.ProcessingStatus != StatusCompleted {
		t.Fatalf("card status = %s, want completed despite sibling panic", card.ProcessingStatus)
	}
	if resp.ClaimDecision.Status == "" {
		t.Fatal("decision missing")
	}
}

func TestProcessClaimTotalServiceOutageDegrades(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{}, failingLLM("openai http status 5xx: 503"))

	resp := o.ProcessClaim(context.Background(), claimFiles())

	if len(resp.Documents) != 3 {
		t.Fatalf("documents = %d, want one result per input", len(resp.Documents))
	}
	for i, doc := range resp.Documents {
		if doc.Type != DocumentTypeUnknown || doc.ProcessingStatus != StatusSkipped {
			t.Errorf("documents[%d] = %s/%s, want skipped unknown", i, doc.Type, doc.ProcessingStatus)
		}
	}
	if resp.Validation.ValidationPassed {
		t.Fatal("validation must not pass during an outage")
	}
	if resp.ClaimDecision.Status != ClaimRequiresReview {
		t.Fatalf("decision = %s, want requires_review", resp.ClaimDecision.Status)
	}
}

func TestProcessClaimStructuredDataLastWriteWins(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{}, scriptedClaimLLM())

	files := []RawDocument{
		{Filename: "bill.pdf", Data: []byte("FIRST BILL"), Size: 10},
		{Filename: "bill.pdf", Data: []byte("SECOND BILL"), Size: 11},
	}
	resp := o.ProcessClaim(context.Background(), files)

	if len(resp.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(resp.Documents))
	}
	data, ok := resp.StructuredData[DocumentTypeBill]
	if !ok {
		t.Fatal("structured_data missing bill")
	}
	if data["hospital_name"] != "Second Hospital" {
		t.Fatalf("hospital_name = %v, want later document to win", data["hospital_name"])
	}
}

func TestProcessClaimEmptyFileList(t *testing.T) {
	o := newTestOrchestrator(t, echoExtractor{}, scriptedClaimLLM())

	resp := o.ProcessClaim(context.Background(), nil)

	if len(resp.Documents) != 0 {
		t.Fatalf("documents = %d, want 0", len(resp.Documents))
	}
	if resp.ClaimDecision.Status == "" {
		t.Fatal("decision missing for empty claim")
	}
}

func TestFailureResponseShape(t *testing.T) {
	resp := failureResponse("Processing error: boom", 0)

	if resp.ClaimDecision.Status != ClaimRequiresReview {
		t.Fatalf("status = %s, want requires_review", resp.ClaimDecision.Status)
	}
	if resp.Validation.ValidationPassed {
		t.Fatal("validation must not pass")
	}
	if resp.Documents == nil || resp.StructuredData == nil {
		t.Fatal("documents and structured_data must be non-nil")
	}
	if !containsString(resp.Validation.DataQualityIssues, "boom") {
		t.Fatalf("data_quality_issues = %v", resp.Validation.DataQualityIssues)
	}
}
