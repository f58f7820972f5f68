// Package mailer はSMTP経由の通知ディスパッチを提供する。
package mailer

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Config はSMTP接続とFromアドレスの設定。
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPMailer はアカウントライフサイクルの各通知をSMTPで送信する。
// 送信は同期的に行い、失敗はerrorとして返す（リトライはしない）。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

// send は1通のHTMLメールを組み立てて送信する。
func (m *SMTPMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		slog.Error("failed to send email",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendVerificationEmail は6桁の検証コードを送信する。
func (m *SMTPMailer) SendVerificationEmail(to, name, code string) error {
	body := fmt.Sprintf(`<h1>Verify your email</h1>
		<p>Hello %s,</p>
		<p>Your verification code is:</p>
		<h2>%s</h2>
		<p>This code expires in 24 hours.</p>`, name, code)
	return m.send(to, "Verify your email", body)
}

// SendWelcomeEmail は検証完了後のウェルカムメールを送信する。
func (m *SMTPMailer) SendWelcomeEmail(to, name string) error {
	body := fmt.Sprintf(`<h1>Welcome, %s!</h1>
		<p>Your email has been verified and your account is ready to use.</p>`, name)
	return m.send(to, "Welcome", body)
}

// SendPasswordResetEmail は生トークンを埋め込んだリセットリンクを送信する。
func (m *SMTPMailer) SendPasswordResetEmail(to, resetURL string) error {
	body := fmt.Sprintf(`<h1>Password Reset Request</h1>
		<p>You requested a password reset. Click the link below to set a new password:</p>
		<a href="%s">Reset Password</a>
		<p>This link expires in 1 hour. If you did not request this, please ignore this email.</p>`, resetURL)
	return m.send(to, "Reset your password", body)
}

// SendResetSuccessEmail はパスワード変更完了通知を送信する。
func (m *SMTPMailer) SendResetSuccessEmail(to string) error {
	body := `<h1>Password Reset Successful</h1>
		<p>Your password has been changed. If you did not do this, contact support immediately.</p>`
	return m.send(to, "Your password was reset", body)
}
