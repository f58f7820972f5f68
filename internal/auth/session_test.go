package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionManager_IssueAndVerify(t *testing.T) {
	m := NewSessionManager([]byte("super-secret"))

	credential, err := m.Issue("account-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	accountID, err := m.Verify(credential)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if accountID != "account-123" {
		t.Errorf("accountID = %q, want %q", accountID, "account-123")
	}
}

func TestSessionManager_Verify_WrongSecret(t *testing.T) {
	credential, err := NewSessionManager([]byte("right-secret")).Issue("account-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = NewSessionManager([]byte("wrong-secret")).Verify(credential)
	if err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for wrong secret, got %v", err)
	}
}

func TestSessionManager_Verify_Expired(t *testing.T) {
	secret := []byte("secret")
	m := NewSessionManager(secret)

	// 期限切れの資格情報を直接組み立てる
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		AccountID: "account-1",
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString returned error: %v", err)
	}

	_, err = m.Verify(signed)
	if err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for expired credential, got %v", err)
	}
}

func TestSessionManager_Verify_Malformed(t *testing.T) {
	m := NewSessionManager([]byte("secret"))

	_, err := m.Verify("not.a.jwt")
	if err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for malformed credential, got %v", err)
	}
}

// 署名アルゴリズムの差し替え（alg=none相当）を拒否することを検証
func TestSessionManager_Verify_RejectsUnexpectedSigningMethod(t *testing.T) {
	m := NewSessionManager([]byte("secret"))

	token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AccountID: "account-1",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString returned error: %v", err)
	}

	_, err = m.Verify(signed)
	if err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for none-signed credential, got %v", err)
	}
}

// 発行された資格情報の期限がおよそ7日後であることを検証
func TestSessionManager_Issue_SetsSevenDayExpiry(t *testing.T) {
	m := NewSessionManager([]byte("secret"))

	credential, err := m.Issue("account-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims := &SessionClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(credential, claims)
	if err != nil {
		t.Fatalf("ParseUnverified returned error: %v", err)
	}

	want := time.Now().Add(SessionTTL)
	got := claims.ExpiresAt.Time
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", got, want)
	}
	if claims.IssuedAt == nil {
		t.Error("IssuedAt should be set")
	}
}
