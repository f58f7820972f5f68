// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Categoryはハンドラー層でのHTTPステータス判定に使用する。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すメッセージ
	Category string // カテゴリ: validation, auth, conflict, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalidOrExpired = "TOKEN_INVALID_OR_EXPIRED"
	ErrCodeEmailConflict         = "EMAIL_CONFLICT"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
// メッセージには違反したフィールドレベルのルールをそのまま載せる。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Category: "validation",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// アカウント不存在とパスワード不一致を意図的に区別しない。
// アカウント存在の列挙を防ぐため、メッセージを分割してはならない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid credentials",
		Category: "auth",
	}
}

// NewTokenInvalidOrExpiredError はトークン検証失敗エラーを生成する。
// 「不正」と「期限切れ」を意図的に区別しない（トークン推測のオラクル防止）。
// kindは "verification code" または "reset token"。
func NewTokenInvalidOrExpiredError(kind string) *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalidOrExpired,
		Message:  fmt.Sprintf("Invalid or expired %s", kind),
		Category: "auth",
	}
}

// NewEmailConflictError はメールアドレス重複エラーを生成する。
func NewEmailConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailConflict,
		Message:  "User already exists",
		Category: "conflict",
	}
}

// NewUserNotFoundError はアカウントが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  message,
		Category: "auth",
	}
}
