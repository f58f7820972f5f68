package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL はセッション資格情報の有効期間。
const SessionTTL = 7 * 24 * time.Hour

// SessionCookieName はセッション資格情報を運ぶCookie名。
const SessionCookieName = "token"

// ErrInvalidSession は署名または期限の検証に失敗したセッションを表す。
var ErrInvalidSession = errors.New("invalid session credential")

// SessionClaims はセッション資格情報のペイロード。
// 標準クレーム（iat/exp）とアカウントIDを含む。
type SessionClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
}

// SessionManager は署名付きセッション資格情報の発行と検証を提供する。
// 署名鍵は構築時に注入する。
type SessionManager struct {
	secret []byte
}

// NewSessionManager はSessionManagerを生成する。
func NewSessionManager(secret []byte) *SessionManager {
	return &SessionManager{secret: secret}
}

// Issue は指定アカウントIDに対する署名付きセッション資格情報を発行する。
// 有効期限は発行時点からSessionTTL。
func (m *SessionManager) Issue(accountID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		AccountID: accountID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session credential: %w", err)
	}
	return signed, nil
}

// Verify はセッション資格情報の署名と期限を検証し、アカウントIDを返す。
// 署名不正・期限切れ・改ざんはすべてErrInvalidSessionとして返す。
func (m *SessionManager) Verify(tokenString string) (string, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidSession
	}

	if !token.Valid || claims.AccountID == "" {
		return "", ErrInvalidSession
	}

	return claims.AccountID, nil
}
