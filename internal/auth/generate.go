package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerificationCodeTTL はメール検証コードの有効期間。
	VerificationCodeTTL = 24 * time.Hour
	// ResetTokenTTL はパスワードリセットトークンの有効期間。
	ResetTokenTTL = time.Hour

	// resetTokenBytes はリセットトークンのエントロピー（バイト数）。
	resetTokenBytes = 20
)

// GenerateVerificationCode は一様乱数から6桁の検証コード（100000〜999999）を生成する。
// コードはアカウント状態と合わせて照合されるため、グローバルな一意性は強制しない。
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateResetToken は高エントロピーのリセットトークンを16進文字列で生成する。
func GenerateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
