// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/authgate/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
// ストアが常時強制するため、事前チェックをすり抜けた競合もこのエラーで検出できる。
var ErrDuplicateEmail = errors.New("account email already exists")

// AccountRepository はアカウントデータの永続化インターフェース。
// 検索系メソッドは見つからない場合にエラーではなくnilを返す。
type AccountRepository interface {
	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	// password_hashはクエリ層で除外され、結果には含まれない。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByEmail は指定メールアドレスのアカウントを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// FindByActiveVerificationToken は検証コードが一致し、かつ有効期限が
	// 読み取り時点で未来であるアカウントを取得する。該当なしはnilを返す。
	// 不一致と期限切れは区別できない（単一の述語で評価する）。
	FindByActiveVerificationToken(ctx context.Context, code string) (*model.Account, error)

	// FindByActiveResetToken はリセットトークンが一致し、かつ有効期限が
	// 読み取り時点で未来であるアカウントを取得する。該当なしはnilを返す。
	FindByActiveResetToken(ctx context.Context, token string) (*model.Account, error)

	// Create はアカウントを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, account *model.Account) error

	// Update はアカウントの全可変フィールドを単一のステートメントで永続化する。
	// トークンのクリアとその効果（検証済みフラグ、新パスワード等）は
	// 同一の書き込みで適用される。
	Update(ctx context.Context, account *model.Account) error
}
