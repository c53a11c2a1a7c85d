package invite

import (
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := Validate(code); err != nil {
			t.Errorf("generated code %q is invalid: %v", code, err)
		}
		if code != strings.ToUpper(code) {
			t.Errorf("generated code %q is not uppercase", code)
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space colliding would mean a broken generator.
	if len(seen) < 100 {
		t.Errorf("got %d distinct codes out of 100", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd1234", "ABCD1234"},
		{"AbCd1234", "ABCD1234"},
		{"  ABCD1234  ", "ABCD1234"},
		{"ABCD1234", "ABCD1234"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid uppercase", "ABCD1234", false},
		{"all digits", "12345678", false},
		{"too short", "ABC123", true},
		{"too long", "ABCD12345", true},
		{"empty", "", true},
		{"punctuation", "ABCD-234", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}
