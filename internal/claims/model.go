// Package claims implements the medical-claim processing pipeline: text
// extraction, document classification, type-specific field extraction and
// validation, cross-document claim validation, and the final decision.
package claims

import (
	"strings"
	"time"
)

// DocumentType is the closed set of claim document categories.
type DocumentType string

const (
	DocumentTypeBill             DocumentType = "bill"
	DocumentTypeDischargeSummary DocumentType = "discharge_summary"
	DocumentTypeIDCard           DocumentType = "id_card"
	DocumentTypeUnknown          DocumentType = "unknown"
)

// ParseDocumentType maps a raw classifier string onto the closed enum.
// Anything unrecognized is unknown.
func ParseDocumentType(raw string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentTypeBill:
		return DocumentTypeBill
	case DocumentTypeDischargeSummary:
		return DocumentTypeDischargeSummary
	case DocumentTypeIDCard:
		return DocumentTypeIDCard
	default:
		return DocumentTypeUnknown
	}
}

// ProcessingStatus describes the outcome of one document's processing.
type ProcessingStatus string

const (
	StatusCompleted             ProcessingStatus = "completed"
	StatusCompletedWithWarnings ProcessingStatus = "completed_with_warnings"
	StatusFailed                ProcessingStatus = "failed"
	StatusSkipped               ProcessingStatus = "skipped"
)

// ClaimStatus is the final claim decision state.
type ClaimStatus string

const (
	ClaimApproved       ClaimStatus = "approved"
	ClaimRejected       ClaimStatus = "rejected"
	ClaimRequiresReview ClaimStatus = "requires_review"
)

// ParseClaimStatus maps a raw decision string onto the closed enum. The
// second return reports whether the value was recognized.
func ParseClaimStatus(raw string) (ClaimStatus, bool) {
	switch ClaimStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ClaimApproved:
		return ClaimApproved, true
	case ClaimRejected:
		return ClaimRejected, true
	case ClaimRequiresReview:
		return ClaimRequiresReview, true
	default:
		return ClaimRequiresReview, false
	}
}

// RawDocument is one uploaded file, immutable for the life of a request.
type RawDocument struct {
	Filename string
	Data     []byte
	Size     int
}

// Classification is the classifier's verdict for one document.
type Classification struct {
	Type       DocumentType `json:"type"`
	Confidence float64      `json:"confidence"`
	Reasoning  string       `json:"reasoning"`
}

// ExtractedDocument carries a document through the pipeline stages. An empty
// Text is a valid terminal state of extraction, not an error.
type ExtractedDocument struct {
	Filename       string
	Text           string
	Size           int
	Classification Classification
}

// ProcessingResult is the single, immutable outcome for one input document.
// Every submitted document yields exactly one.
type ProcessingResult struct {
	Type                     DocumentType     `json:"type"`
	Filename                 string           `json:"filename"`
	ExtractedData            map[string]any   `json:"extracted_data"`
	ValidationErrors         []string         `json:"validation_errors"`
	ProcessingStatus         ProcessingStatus `json:"processing_status"`
	ClassificationConfidence float64          `json:"classification_confidence"`
}

// ValidationResult is the cross-document validation outcome for a claim run.
type ValidationResult struct {
	MissingDocuments  []string `json:"missing_documents"`
	Discrepancies     []string `json:"discrepancies"`
	DataQualityIssues []string `json:"data_quality_issues"`
	ValidationPassed  bool     `json:"validation_passed"`
}

// ClaimDecision is the terminal artifact of a claim run.
type ClaimDecision struct {
	Status             ClaimStatus `json:"status"`
	Reason             string      `json:"reason"`
	Confidence         float64     `json:"confidence"`
	RecommendedActions []string    `json:"recommended_actions"`
}

// ClaimProcessingResponse aggregates everything a caller needs to judge a
// run, including degraded results. Documents preserve input order.
type ClaimProcessingResponse struct {
	Documents      []ProcessingResult              `json:"documents"`
	StructuredData map[DocumentType]map[string]any `json:"structured_data"`
	Validation     ValidationResult                `json:"validation"`
	ClaimDecision  ClaimDecision                   `json:"claim_decision"`
	ProcessingTime float64                         `json:"processing_time"`
	ProcessedAt    time.Time                       `json:"processed_at"`
}

// BillRecord is the typed projection of a medical bill's extracted fields.
// Nil means the service did not supply a usable value.
type BillRecord struct {
	HospitalName  *string
	TotalAmount   *float64
	DateOfService *string
	PatientName   *string
	Services      []string
	InsuranceID   *string
}

// DischargeRecord is the typed projection of a discharge summary.
type DischargeRecord struct {
	PatientName       *string
	Diagnosis         *string
	AdmissionDate     *string
	DischargeDate     *string
	TreatingPhysician *string
	HospitalName      *string
	Procedures        []string
}

// IDCardRecord is the typed projection of an insurance ID card.
type IDCardRecord struct {
	PatientName    *string
	InsuranceID    *string
	PolicyNumber   *string
	GroupNumber    *string
	EffectiveDate  *string
	ExpirationDate *string
}
