package utils

import "testing"

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid italian coordinates", 45.4642, 9.19, false},
		{"zero zero is allowed", 0, 0, false},
		{"boundary values", 90, 180, false},
		{"negative boundary", -90, -180, false},
		{"latitude too high", 91, 0, true},
		{"latitude too low", -90.01, 0, true},
		{"longitude too high", 0, 180.5, true},
		{"longitude too low", 0, -181, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) error = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestValidateItalianCAP(t *testing.T) {
	tests := []struct {
		cap     string
		wantErr bool
	}{
		{"", false},
		{"20121", false},
		{"00100", false},
		{"2012", true},
		{"201211", true},
		{"2012a", true},
	}

	for _, tt := range tests {
		if err := ValidateItalianCAP(tt.cap); (err != nil) != tt.wantErr {
			t.Errorf("ValidateItalianCAP(%q) error = %v, wantErr %v", tt.cap, err, tt.wantErr)
		}
	}
}
