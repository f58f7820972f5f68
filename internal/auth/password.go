package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost はパスワードハッシュのワークファクター。固定の設定定数。
const DefaultBcryptCost = 12

// PasswordHasher はbcryptによる一方向パスワードハッシュを提供する。
// コストは構築時に注入し、フロー中での環境参照は行わない。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はPasswordHasherを生成する。
// costが0以下の場合はDefaultBcryptCostを使用する。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードをソルト付きハッシュに変換する。
// ハッシュ失敗はリクエストに対して致命的であり、呼び出し側でサーバーエラーとして扱う。
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify は平文パスワードとハッシュを照合する。
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
