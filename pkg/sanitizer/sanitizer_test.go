package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "New York", "New York"},
		{"leading and trailing", "  Chennai  ", "Chennai"},
		{"inner runs", "New   Delhi", "New Delhi"},
		{"tabs and newlines", "San\t\nFrancisco", "San Francisco"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@mail.io ", "bob@mail.io"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeFlightNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ai 202", "AI202"},
		{" ba  117 ", "BA117"},
		{"6E55", "6E55"},
	}

	for _, tt := range tests {
		if got := NormalizeFlightNumber(tt.input); got != tt.want {
			t.Errorf("NormalizeFlightNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"us number", "(212) 555-0142", "+12125550142"},
		{"already e164", "+12125550142", "+12125550142"},
		{"empty", "", ""},
		{"garbage passes through", "not-a-phone", "not-a-phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
