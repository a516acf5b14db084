package domain

import "encoding/json"

// DocumentResult is the outcome of composing one (record, template kind)
// unit. Exactly one is produced per unit per batch run.
type DocumentResult struct {
	RecordID         string       `json:"record_id"`
	TemplateKind     TemplateKind `json:"template_kind"`
	Path             string       `json:"path"`
	VerificationHash string       `json:"verification_hash"`
	Error            string       `json:"error"`
	Success          bool         `json:"success"`
}

// MarshalJSON renders absent path/hash/error values as explicit nulls so
// every result carries the same key set regardless of outcome.
func (r DocumentResult) MarshalJSON() ([]byte, error) {
	type result struct {
		RecordID         string       `json:"record_id"`
		TemplateKind     TemplateKind `json:"template_kind"`
		Path             *string      `json:"path"`
		VerificationHash *string      `json:"verification_hash"`
		Error            *string      `json:"error"`
		Success          bool         `json:"success"`
	}
	out := result{RecordID: r.RecordID, TemplateKind: r.TemplateKind, Success: r.Success}
	if r.Path != "" {
		out.Path = &r.Path
	}
	if r.VerificationHash != "" {
		out.VerificationHash = &r.VerificationHash
	}
	if r.Error != "" {
		out.Error = &r.Error
	}
	return json.Marshal(out)
}

// BatchReport aggregates every unit outcome of a run. Results preserve the
// original submission order regardless of completion order.
type BatchReport struct {
	Success        bool             `json:"success"`
	Results        []DocumentResult `json:"results"`
	ProcessedCount int              `json:"processed_count"`
	FailedCount    int              `json:"failed_count"`
}
