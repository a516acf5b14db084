package domain

import (
	"fmt"
	"strings"
)

// TemplateKind enumerates the supported document types.
type TemplateKind string

const (
	TemplateIDCard         TemplateKind = "id_card"
	TemplateSalarySlip     TemplateKind = "salary_slip"
	TemplateReceipt        TemplateKind = "receipt"
	TemplateTranscript     TemplateKind = "transcript"
	TemplateEnrollmentCert TemplateKind = "enrollment_certificate"
)

// TemplateKinds lists every supported kind in a stable order.
var TemplateKinds = []TemplateKind{
	TemplateIDCard,
	TemplateSalarySlip,
	TemplateReceipt,
	TemplateTranscript,
	TemplateEnrollmentCert,
}

var requiredFields = map[TemplateKind][]string{
	TemplateIDCard:         {FieldRecordID, FieldName, FieldCountry},
	TemplateSalarySlip:     {FieldRecordID, FieldName, FieldCountry, FieldBasicSalary, FieldPayPeriod},
	TemplateReceipt:        {FieldRecordID, FieldName, FieldCountry, FieldFeeAmount},
	TemplateTranscript:     {FieldRecordID, FieldName, FieldCountry, FieldProgram, FieldAcademicYear},
	TemplateEnrollmentCert: {FieldRecordID, FieldName, FieldCountry, FieldProgram},
}

// ParseTemplateKind sanitizes free-form input into a supported kind.
func ParseTemplateKind(s string) (TemplateKind, error) {
	kind := TemplateKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TemplateKinds {
		if kind == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unsupported template kind %q", s)
}

// RequiredFields returns the record fields a kind cannot be rendered without.
func (k TemplateKind) RequiredFields() []string {
	return requiredFields[k]
}

// Ext returns the artifact file extension: png for card-like documents and
// pdf for document-like ones.
func (k TemplateKind) Ext() string {
	if k == TemplateIDCard {
		return "png"
	}
	return "pdf"
}

// NeedsPhoto reports whether the kind embeds subject imagery.
func (k TemplateKind) NeedsPhoto() bool {
	return k == TemplateIDCard
}

// Period returns the record field that scopes an artifact to a period, or
// empty when the kind is not period-scoped.
func (k TemplateKind) Period(r Record) string {
	if k == TemplateSalarySlip {
		return r.String(FieldPayPeriod)
	}
	return ""
}

// ArtifactName derives the deterministic output filename for a record and
// kind: <kind>_<record_id>[_<period>].<ext>.
func (k TemplateKind) ArtifactName(r Record) string {
	name := fmt.Sprintf("%s_%s", k, r.ID())
	if period := k.Period(r); period != "" {
		name += "_" + period
	}
	return name + "." + k.Ext()
}
