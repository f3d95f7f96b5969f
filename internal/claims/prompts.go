package claims

import (
	"encoding/json"
	"fmt"
	"strings"
)

const classifyTextLimit = 1000

// jsonOnly is appended to every prompt; the provider is asked for a JSON
// object but models still occasionally wrap output in prose.
const jsonOnly = "IMPORTANT: Return ONLY valid JSON, no other text."

func buildClassifyPrompt(text, filename string) string {
	snippet := text
	if len(snippet) > classifyTextLimit {
		snippet = snippet[:classifyTextLimit]
	}
	var b strings.Builder
	b.WriteString("Analyze the following document text and filename to classify the document type.\n\n")
	fmt.Fprintf(&b, "Filename: %s\n\n", filename)
	fmt.Fprintf(&b, "Document Text (first %d chars):\n%s\n\n", classifyTextLimit, snippet)
	b.WriteString("Classify this document as one of:\n")
	b.WriteString("- bill: Medical bill or invoice\n")
	b.WriteString("- discharge_summary: Hospital discharge summary\n")
	b.WriteString("- id_card: Insurance ID card\n")
	b.WriteString("- unknown: Cannot determine type\n\n")
	b.WriteString("Return a JSON response with:\n")
	b.WriteString(`{"type": "document_type", "confidence": 0.95, "reasoning": "Brief explanation of classification"}` + "\n\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func buildBillPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract key information from this medical bill document:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nExtract the following information and return as JSON:\n")
	b.WriteString(`{"hospital_name": "Name of hospital/provider", "total_amount": 12500.00, "date_of_service": "2024-04-10", "patient_name": "Patient Name", "services": ["Service 1", "Service 2"], "insurance_id": "Insurance ID if present"}` + "\n\n")
	b.WriteString("Use ISO-8601 (YYYY-MM-DD) for dates. If information is not found, use null for that field.\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func buildDischargePrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract key information from this discharge summary document:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nExtract the following information and return as JSON:\n")
	b.WriteString(`{"patient_name": "Patient Name", "diagnosis": "Primary diagnosis", "admission_date": "2024-04-01", "discharge_date": "2024-04-10", "treating_physician": "Doctor Name", "hospital_name": "Hospital Name", "procedures": ["Procedure 1", "Procedure 2"]}` + "\n\n")
	b.WriteString("Use ISO-8601 (YYYY-MM-DD) for dates. If information is not found, use null for that field.\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func buildIDCardPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract key information from this insurance ID card document:\n\n")
	b.WriteString(text)
	b.WriteString("\n\nExtract the following information and return as JSON:\n")
	b.WriteString(`{"patient_name": "Patient Name", "insurance_id": "Member ID", "policy_number": "Policy Number", "group_number": "Group Number", "effective_date": "2024-01-01", "expiration_date": "2024-12-31"}` + "\n\n")
	b.WriteString("Use ISO-8601 (YYYY-MM-DD) for dates. If information is not found, use null for that field.\n")
	b.WriteString(jsonOnly)
	return b.String()
}

// validationDocument is the reduced per-document view handed to the claim
// validator.
type validationDocument struct {
	Type     DocumentType   `json:"type"`
	Filename string         `json:"filename"`
	Data     map[string]any `json:"data"`
	Errors   []string       `json:"errors"`
}

// decisionDocument is the reduced per-document view handed to the decision
// engine.
type decisionDocument struct {
	Type     DocumentType     `json:"type"`
	Filename string           `json:"filename"`
	Data     map[string]any   `json:"data"`
	Status   ProcessingStatus `json:"status"`
}

func buildValidationPrompt(docs []validationDocument) string {
	payload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		payload = []byte("[]")
	}
	var b strings.Builder
	b.WriteString("Analyze these processed claim documents for validation:\n\n")
	b.Write(payload)
	b.WriteString("\n\nCheck for:\n")
	b.WriteString("1. Missing required documents (bill, discharge summary recommended)\n")
	b.WriteString("2. Data inconsistencies between documents (dates, names, amounts)\n")
	b.WriteString("3. Data quality issues (missing critical fields)\n\n")
	b.WriteString("Return validation results as JSON:\n")
	b.WriteString(`{"missing_documents": ["document_type1"], "discrepancies": ["Description of discrepancy 1"], "data_quality_issues": ["Missing critical field X"], "validation_passed": true}` + "\n\n")
	b.WriteString(jsonOnly)
	return b.String()
}

func buildDecisionPrompt(docs []decisionDocument, validation ValidationResult) string {
	docPayload, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		docPayload = []byte("[]")
	}
	valPayload, err := json.MarshalIndent(validation, "", "  ")
	if err != nil {
		valPayload = []byte("{}")
	}
	var b strings.Builder
	b.WriteString("Make a claim decision based on the processed documents and validation results:\n\n")
	b.WriteString("Documents:\n")
	b.Write(docPayload)
	b.WriteString("\n\nValidation Results:\n")
	b.Write(valPayload)
	b.WriteString("\n\nDecision criteria:\n")
	b.WriteString("- Approve if all required documents present and no major discrepancies\n")
	b.WriteString("- Reject if critical information missing or major discrepancies found\n")
	b.WriteString("- Require review if minor issues that need human attention\n\n")
	b.WriteString("Return decision as JSON:\n")
	b.WriteString(`{"status": "approved|rejected|requires_review", "reason": "Detailed explanation of decision", "confidence": 0.95, "recommended_actions": ["Action 1"]}` + "\n\n")
	b.WriteString(jsonOnly)
	return b.String()
}
