package claims

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeObject parses a raw LLM payload into a loose JSON object. Anything
// that is not a top-level object is a recoverable coercion failure.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}
	return obj, nil
}

// hasValue reports whether key carries a usable value: present, non-null,
// and not an empty string, zero number, or empty list.
func hasValue(raw map[string]any, key string) bool {
	val, ok := raw[key]
	if !ok || val == nil {
		return false
	}
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case bool:
		return v
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

// stringField returns the trimmed string at key, or nil when the value is
// absent, null, empty, or not a string.
func stringField(raw map[string]any, key string) *string {
	val, ok := raw[key]
	if !ok || val == nil {
		return nil
	}
	s, ok := val.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// numberField returns the numeric value at key, or nil when the value is
// absent or not a JSON number. Numeric strings are deliberately not coerced:
// a present-but-non-numeric amount must surface as a format error.
func numberField(raw map[string]any, key string) *float64 {
	val, ok := raw[key]
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case float64:
		return &v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// stringListField returns the string items at key, dropping anything that is
// not a string. Missing or mistyped values yield an empty list.
func stringListField(raw map[string]any, key string) []string {
	val, ok := raw[key]
	if !ok || val == nil {
		return []string{}
	}
	items, ok := val.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// clamp01 clamps v into [0,1]. Producers clamp, consumers trust.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ensureStrings converts a nil slice to an empty one so responses always
// carry a JSON array.
func ensureStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func coerceBillRecord(raw map[string]any) BillRecord {
	return BillRecord{
		HospitalName:  stringField(raw, "hospital_name"),
		TotalAmount:   numberField(raw, "total_amount"),
		DateOfService: stringField(raw, "date_of_service"),
		PatientName:   stringField(raw, "patient_name"),
		Services:      stringListField(raw, "services"),
		InsuranceID:   stringField(raw, "insurance_id"),
	}
}

func coerceDischargeRecord(raw map[string]any) DischargeRecord {
	return DischargeRecord{
		PatientName:       stringField(raw, "patient_name"),
		Diagnosis:         stringField(raw, "diagnosis"),
		AdmissionDate:     stringField(raw, "admission_date"),
		DischargeDate:     stringField(raw, "discharge_date"),
		TreatingPhysician: stringField(raw, "treating_physician"),
		HospitalName:      stringField(raw, "hospital_name"),
		Procedures:        stringListField(raw, "procedures"),
	}
}

func coerceIDCardRecord(raw map[string]any) IDCardRecord {
	return IDCardRecord{
		PatientName:    stringField(raw, "patient_name"),
		InsuranceID:    stringField(raw, "insurance_id"),
		PolicyNumber:   stringField(raw, "policy_number"),
		GroupNumber:    stringField(raw, "group_number"),
		EffectiveDate:  stringField(raw, "effective_date"),
		ExpirationDate: stringField(raw, "expiration_date"),
	}
}
