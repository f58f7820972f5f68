package mailer

import (
	"testing"
)

func TestNewSMTPMailer_Initializes(t *testing.T) {
	m := NewSMTPMailer(Config{
		Host: "localhost",
		Port: 2525,
		From: "noreply@authgate.local",
	})
	if m == nil {
		t.Fatal("expected non-nil mailer")
	}
	if m.from != "noreply@authgate.local" {
		t.Errorf("from = %q, want %q", m.from, "noreply@authgate.local")
	}
}

// SMTPサーバーなしでは送信がエラーになることを検証
// （失敗が握りつぶされず呼び出し側に返ること）
func TestSMTPMailer_Send_FailureSurfaces(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	m := NewSMTPMailer(Config{
		Host: "127.0.0.1",
		Port: 1, // 接続不能なポート
		From: "noreply@authgate.local",
	})

	if err := m.SendVerificationEmail("to@example.com", "A", "123456"); err == nil {
		t.Error("expected error when SMTP is unreachable, got nil")
	}
}
