package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is the subject of a document: a mapping of named fields. Records are
// treated as immutable once handed to the pipeline.
type Record map[string]any

// Field keys recognized by the pipeline.
const (
	FieldRecordID     = "record_id"
	FieldName         = "name"
	FieldCountry      = "country"
	FieldBasicSalary  = "basic_salary"
	FieldPayPeriod    = "pay_period"
	FieldPayDate      = "pay_date"
	FieldProgram      = "program"
	FieldAcademicYear = "academic_year"
	FieldFeeAmount    = "fee_amount"
	FieldDepartment   = "department"
	FieldPosition     = "position"
	FieldValidUntil   = "valid_until"
	FieldInstitution  = "institution"
	FieldReceiptNo    = "receipt_no"
)

// ID returns the record identifier, or empty when absent.
func (r Record) ID() string {
	return r.String(FieldRecordID)
}

// String returns the named field rendered as a trimmed string. Numeric values
// are formatted without an exponent so identifiers survive JSON decoding.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// Number returns the named field as a float64 when it carries a numeric value.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// MissingFields reports which of the given keys are absent or blank, sorted
// for stable error messages.
func (r Record) MissingFields(keys []string) []string {
	var missing []string
	for _, key := range keys {
		if r.String(key) == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
