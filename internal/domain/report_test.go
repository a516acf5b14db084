package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDocumentResultJSONKeySet(t *testing.T) {
	tests := []struct {
		name    string
		result  DocumentResult
		want    []string
		notWant []string
	}{
		{
			name: "success carries path and hash, null error",
			result: DocumentResult{
				RecordID:         "T-1",
				TemplateKind:     TemplateIDCard,
				Path:             "id_card_T-1.png",
				VerificationHash: "a1b2c3d4e5f60718",
				Success:          true,
			},
			want:    []string{`"path":"id_card_T-1.png"`, `"error":null`, `"success":true`},
			notWant: []string{`"path":null`},
		},
		{
			name: "failure carries error, null path and hash",
			result: DocumentResult{
				RecordID:     "T-2",
				TemplateKind: TemplateSalarySlip,
				Error:        "missing required fields: name",
			},
			want: []string{`"path":null`, `"verification_hash":null`, `"error":"missing required fields: name"`, `"success":false`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			for _, frag := range tt.want {
				if !strings.Contains(string(data), frag) {
					t.Errorf("output %s missing %s", data, frag)
				}
			}
			for _, frag := range tt.notWant {
				if strings.Contains(string(data), frag) {
					t.Errorf("output %s must not contain %s", data, frag)
				}
			}

			var back DocumentResult
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tt.result {
				t.Errorf("round trip mismatch: got %+v, want %+v", back, tt.result)
			}
		})
	}
}
