package validation

import "testing"

func TestIsValidPromoCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{
			name:  "letters and digits",
			code:  "NEON10",
			valid: true,
		},
		{
			name:  "letters only",
			code:  "PVNDORA",
			valid: true,
		},
		{
			name:  "digits only",
			code:  "123456",
			valid: false,
		},
		{
			name:  "lower case",
			code:  "neon10",
			valid: false,
		},
		{
			name:  "too short",
			code:  "AB1",
			valid: false,
		},
		{
			name:  "too long",
			code:  "ABCDEFGHIJKLMNOPQ",
			valid: false,
		},
		{
			name:  "special characters",
			code:  "NEON-10",
			valid: false,
		},
		{
			name:  "empty string",
			code:  "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPromoCode(tt.code); got != tt.valid {
				t.Fatalf("IsValidPromoCode(%q) = %v, want %v", tt.code, got, tt.valid)
			}
		})
	}
}
