// Package verify derives the security payload stamped onto every document: a
// short content digest plus a QR-encodable verification string. The payload
// is a pure function of a record's stable fields so an identical record
// always yields an identical payload, which makes reissuing a document and
// round-trip testing deterministic. The digest is a duplicate-detection and
// display artifact, not a tamper-resistance mechanism.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"docforge/internal/domain"
)

const digestLen = 16

// Payload is the derived verification data for one record.
type Payload struct {
	Digest       string
	Verification string
}

type qrPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	ValidUntil  string `json:"valid_until,omitempty"`
	Hash        string `json:"verification_hash"`
}

// Hash derives the security payload from the record's stable fields: id,
// name, institution code, and validity date. It never consults the clock or
// random state.
func Hash(r domain.Record, institution string) Payload {
	if inst := r.String(domain.FieldInstitution); inst != "" {
		institution = inst
	}
	digest := digestFields(r.ID(), r.String(domain.FieldName), institution, r.String(domain.FieldValidUntil))

	verification, _ := json.Marshal(qrPayload{
		ID:          r.ID(),
		Name:        r.String(domain.FieldName),
		Institution: institution,
		ValidUntil:  r.String(domain.FieldValidUntil),
		Hash:        digest,
	})
	return Payload{Digest: digest, Verification: string(verification)}
}

func digestFields(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil))[:digestLen]
}
