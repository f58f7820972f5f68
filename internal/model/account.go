// Package model はドメインモデルを定義する。
package model

import (
	"database/sql"
	"time"
)

// Account はサービス利用アカウントを表す。
// 検証トークンとリセットトークンはそれぞれ有効期限とペアで保持し、
// 消費時には同一の永続化操作で両フィールドを同時にクリアする。
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsVerified   bool
	LastLogin    time.Time

	// メール検証が保留中の場合のみ非NULL。
	VerificationToken          sql.NullString
	VerificationTokenExpiresAt sql.NullTime

	// パスワードリセットが保留中の場合のみ非NULL。
	ResetPasswordToken     sql.NullString
	ResetPasswordExpiresAt sql.NullTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetVerificationToken は検証トークンペアを設定する。
func (a *Account) SetVerificationToken(token string, expiresAt time.Time) {
	a.VerificationToken = sql.NullString{String: token, Valid: true}
	a.VerificationTokenExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
}

// ClearVerificationToken は検証トークンペアを同時にクリアする。
func (a *Account) ClearVerificationToken() {
	a.VerificationToken = sql.NullString{}
	a.VerificationTokenExpiresAt = sql.NullTime{}
}

// SetResetPasswordToken はリセットトークンペアを設定する。
// 既存の保留中リセットは上書きされる。
func (a *Account) SetResetPasswordToken(token string, expiresAt time.Time) {
	a.ResetPasswordToken = sql.NullString{String: token, Valid: true}
	a.ResetPasswordExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
}

// ClearResetPasswordToken はリセットトークンペアを同時にクリアする。
func (a *Account) ClearResetPasswordToken() {
	a.ResetPasswordToken = sql.NullString{}
	a.ResetPasswordExpiresAt = sql.NullTime{}
}
