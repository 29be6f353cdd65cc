package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeSparse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		allowed map[string]bool
		wantErr bool
		wantLen int
	}{
		{"valid fields pass", `{"citta":"Modena","referente":"Dott. Bianchi"}`, farmaciaFields, false, 2},
		{"protected fields are stripped", `{"id":"x","createdAt":"y","citta":"Modena"}`, farmaciaFields, false, 1},
		{"unknown field is rejected", `{"no_such_field":1}`, farmaciaFields, true, 0},
		{"snake_case wire name is rejected", `{"planogramma_url":"u"}`, farmaciaFields, true, 0},
		{"protected-only body is rejected", `{"id":"x","updatedAt":"y"}`, farmaciaFields, true, 0},
		{"empty body is rejected", `{}`, farmaciaFields, true, 0},
		{"malformed body is rejected", `{not json`, farmaciaFields, true, 0},
		{"campo fields", `{"ordine":3,"attivo":false}`, campoFields, false, 2},
		{"user email cannot be changed sparsely", `{"email":"x@example.com"}`, userFields, true, 0},
		{"user password hash cannot be changed sparsely", `{"passwordHash":"h"}`, userFields, true, 0},
		{"user deactivation", `{"isActive":false}`, userFields, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("PUT", "/", strings.NewReader(tt.body))
			fields, err := decodeSparse(r, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeSparse(%s) error = %v, wantErr %v", tt.body, err, tt.wantErr)
			}
			if err == nil && len(fields) != tt.wantLen {
				t.Errorf("decodeSparse(%s) kept %d fields, expected %d", tt.body, len(fields), tt.wantLen)
			}
		})
	}
}
