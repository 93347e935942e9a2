package auth

import "testing"

func TestNewCSRFTokenIsUnique(t *testing.T) {
	token1, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("NewCSRFToken error: %v", err)
	}
	token2, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("NewCSRFToken error: %v", err)
	}
	if len(token1) != 64 {
		t.Fatalf("unexpected token length: %d", len(token1))
	}
	if token1 == token2 {
		t.Fatalf("expected fresh token per call")
	}
}

func TestCheckCSRF(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   bool
	}{
		{"matching values", "abc123", "abc123", true},
		{"mismatched values", "abc123", "abc124", false},
		{"missing header", "abc123", "", false},
		{"missing cookie", "", "abc123", false},
		{"both missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckCSRF(tt.cookie, tt.header); got != tt.want {
				t.Fatalf("CheckCSRF(%q, %q) = %v, want %v", tt.cookie, tt.header, got, tt.want)
			}
		})
	}
}
