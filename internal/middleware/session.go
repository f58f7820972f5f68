// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/authgate/internal/auth"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// accountIDContextKey はリクエストコンテキストにアカウントIDを格納するためのキー。
var accountIDContextKey = contextKey("account_id")

// SessionVerifier はセッショントークンの検証に必要なインターフェース。
// auth.SessionManagerの部分集合として定義する。
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 署名と有効期限を検証するミドルウェアを返す。
// 検証はトークンのみで完結し、ストアには問い合わせない。
// 認証済みアカウントIDをリクエストコンテキストに注入する。
func NewSessionMiddleware(verifier SessionVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteUnauthorized(w, "Unauthorized - no token provided")
				return
			}

			accountID, err := verifier.Verify(cookie.Value)
			if err != nil {
				WriteUnauthorized(w, "Unauthorized - invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), accountIDContextKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext はリクエストコンテキストからアカウントIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func AccountIDFromContext(ctx context.Context) (string, error) {
	accountID, ok := ctx.Value(accountIDContextKey).(string)
	if !ok || accountID == "" {
		return "", fmt.Errorf("account ID not found in context")
	}
	return accountID, nil
}

// ContextWithAccountID はコンテキストにアカウントIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDContextKey, accountID)
}
