package auth

import (
	"strconv"
	"testing"
)

// 検証コードが常に6桁の100000〜999999に収まることを検証
func TestGenerateVerificationCode_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("GenerateVerificationCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range [100000, 999999]", n)
		}
	}
}

func TestGenerateResetToken_HexAndLength(t *testing.T) {
	token, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}
	// 20バイト → 40文字の16進
	if len(token) != 40 {
		t.Errorf("token length = %d, want 40", len(token))
	}
	for _, c := range token {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("token %q contains non-hex character %q", token, c)
		}
	}
}

func TestGenerateResetToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateResetToken()
		if err != nil {
			t.Fatalf("GenerateResetToken returned error: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate reset token generated: %q", token)
		}
		seen[token] = true
	}
}
