package crypto

import (
	"bytes"
	"regexp"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if !VerifyPassword(hash, "admin123") {
		t.Fatal("expected password verification to succeed")
	}

	if VerifyPassword(hash, "incorrect") {
		t.Fatal("expected password verification to fail")
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if len(token) == 0 {
		t.Fatal("expected token to be non-empty")
	}
}

func TestGenerateNumericCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("code error: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestNumericCodeKeepsLeadingZeros(t *testing.T) {
	code, err := numericCode(bytes.NewReader(make([]byte, 64)), 6)
	if err != nil {
		t.Fatalf("code error: %v", err)
	}
	if code != "000000" {
		t.Fatalf("expected zero padded code, got %q", code)
	}
}

func TestGenerateNumericCodeRejectsBadLength(t *testing.T) {
	if _, err := GenerateNumericCode(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
	if _, err := GenerateNumericCode(19); err == nil {
		t.Fatal("expected error for too many digits")
	}
}
