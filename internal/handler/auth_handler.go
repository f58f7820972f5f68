// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/authgate/internal/auth"
	"github.com/hitoshi/authgate/internal/middleware"
	"github.com/hitoshi/authgate/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup はアカウントを作成し、セッショントークンを発行する。
	Signup(ctx context.Context, email, password, name string) (*model.Account, string, error)
	// Login は資格情報を検証し、セッショントークンを発行する。
	Login(ctx context.Context, email, password string) (*model.Account, string, error)
	// VerifyEmail は検証コードを消費してアカウントを検証済みにする。
	VerifyEmail(ctx context.Context, code string) (*model.Account, error)
	// ForgotPassword はリセットトークンを発行してメールで送付する。
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword はリセットトークンを消費してパスワードを更新する。
	ResetPassword(ctx context.Context, token, newPassword string) (*model.Account, error)
	// CheckAuth はアカウントIDから公開プロフィールを取得する。
	CheckAuth(ctx context.Context, accountID string) (*model.Account, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieSecure bool
}

// AuthHandler はアカウントライフサイクルのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	config   AuthHandlerConfig
	validate *validator.Validate
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		config:   config,
		validate: validator.New(),
	}
}

// --- リクエスト / レスポンス ---

// signupRequest はサインアップリクエストのボディ。
type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// verifyEmailRequest はメール検証リクエストのボディ。
type verifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// forgotPasswordRequest はパスワードリセット要求のボディ。
type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPasswordRequest はパスワードリセット実行のボディ。
type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// accountResponse はアカウントの公開プロジェクション。
// パスワードハッシュは含めない。
type accountResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	LastLogin  time.Time `json:"lastLogin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// envelopeResponse は成功レスポンスの統一フォーマット。
type envelopeResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	User    *accountResponse `json:"user,omitempty"`
}

// toAccountResponse はAccountを公開プロジェクションに変換する。
func toAccountResponse(account *model.Account) *accountResponse {
	return &accountResponse{
		ID:         account.ID,
		Email:      account.Email,
		Name:       account.Name,
		IsVerified: account.IsVerified,
		LastLogin:  account.LastLogin,
		CreatedAt:  account.CreatedAt,
		UpdatedAt:  account.UpdatedAt,
	}
}

// --- ヘルパー ---

// writeEnvelope は統一フォーマットの成功レスポンスを書き込む。
func writeEnvelope(w http.ResponseWriter, statusCode int, message string, account *model.Account) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	body := envelopeResponse{
		Success: true,
		Message: message,
	}
	if account != nil {
		body.User = toAccountResponse(account)
	}
	json.NewEncoder(w).Encode(body)
}

// writeServiceError はサービス層のエラーを統一フォーマットで書き込む。
// APIError以外のエラーは詳細をログに残し、一般的な500を返す。
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		status := middleware.StatusForError(apiErr)
		if status == http.StatusInternalServerError {
			slog.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			middleware.WriteInternalServerError(w)
			return
		}
		middleware.WriteErrorResponse(w, status, apiErr)
		return
	}

	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// decodeAndValidate はリクエストボディをデコードして検証する。
// 失敗時はレスポンスを書き込み、falseを返す。
func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Invalid request body"))
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError(validationMessage(err)))
		return false
	}
	return true
}

// validationMessage は最初の違反フィールドからメッセージを組み立てる。
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		v := verrs[0]
		switch v.Tag() {
		case "required":
			return v.Field() + " is required"
		case "email":
			return v.Field() + " must be a valid email address"
		case "min":
			return v.Field() + " must be at least " + v.Param() + " characters"
		case "len":
			return v.Field() + " must be " + v.Param() + " characters"
		case "numeric":
			return v.Field() + " must be numeric"
		}
		return v.Field() + " is invalid"
	}
	return "Invalid request"
}

// setSessionCookie はセッショントークンをHTTP Only Cookieに設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// --- ハンドラー ---

// Signup はアカウント作成を処理する。
// POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, token, err := h.service.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeEnvelope(w, http.StatusCreated, "User created successfully", account)
}

// Login は資格情報の検証とセッション発行を処理する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeEnvelope(w, http.StatusOK, "Logged in successfully", account)
}

// Logout はセッションCookieを破棄する。
// サーバー側の状態を持たないため、Cookie削除のみで完結する。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeEnvelope(w, http.StatusOK, "Logged out successfully", nil)
}

// VerifyEmail は検証コードの消費を処理する。
// POST /verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.service.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Email verified successfully", account)
}

// ForgotPassword はリセットトークンの発行を処理する。
// POST /forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword はリセットトークンの消費とパスワード更新を処理する。
// POST /reset-password/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := resetTokenFromPath(r)
	if token == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewTokenInvalidOrExpiredError("reset token"))
		return
	}

	var req resetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "Password reset successful", nil)
}

// CheckAuth は現在のセッションのアカウント情報を返す。
// セッションミドルウェアの背後に配置すること。
// GET /check-auth
func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.AccountIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w, "Unauthorized - no token provided")
		return
	}

	account, err := h.service.CheckAuth(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeEnvelope(w, http.StatusOK, "User found", account)
}
