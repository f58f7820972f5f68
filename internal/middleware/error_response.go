package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/authgate/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// successは常にfalse。
type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusForError はAPIErrorのカテゴリとコードからHTTPステータスを決定する。
func StatusForError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeValidationFailed,
		model.ErrCodeInvalidCredentials,
		model.ErrCodeTokenInvalidOrExpired,
		model.ErrCodeEmailConflict,
		model.ErrCodeUserNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Success: false,
		Message: apiErr.Message,
	})
}

// WriteUnauthorized は401の統一レスポンスを書き込む。
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError(message))
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternal,
		Message:  "Server error",
		Category: "system",
	})
}
