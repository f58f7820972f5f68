package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/authgate/internal/model"
)

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// accountColumns はpassword_hashを含む全カラム。
const accountColumns = `id, email, name, password_hash, is_verified, last_login,
	verification_token, verification_token_expires_at,
	reset_password_token, reset_password_expires_at,
	created_at, updated_at`

// scanAccount は1行をAccountにスキャンする。
func scanAccount(row *sql.Row) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.IsVerified, &a.LastLogin,
		&a.VerificationToken, &a.VerificationTokenExpiresAt,
		&a.ResetPasswordToken, &a.ResetPasswordExpiresAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
// check-auth用の公開プロジェクションのため、password_hashはSELECTしない。
func (r *PostgresAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, is_verified, last_login, created_at, updated_at
		 FROM accounts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Email, &a.Name, &a.IsVerified, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return a, nil
}

// FindByEmail は指定メールアドレスのアカウントを取得する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		email,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return a, nil
}

// FindByActiveVerificationToken は検証コードが一致し期限内のアカウントを取得する。
// 一致と期限判定を単一のSQL述語で読み取り時に評価する。
func (r *PostgresAccountRepo) FindByActiveVerificationToken(ctx context.Context, code string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE verification_token = $1 AND verification_token_expires_at > now()`,
		code,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by verification token: %w", err)
	}
	return a, nil
}

// FindByActiveResetToken はリセットトークンが一致し期限内のアカウントを取得する。
func (r *PostgresAccountRepo) FindByActiveResetToken(ctx context.Context, token string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE reset_password_token = $1 AND reset_password_expires_at > now()`,
		token,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by reset token: %w", err)
	}
	return a, nil
}

// Create はアカウントを作成する。
// email一意制約違反（pqエラーコード23505）はErrDuplicateEmailにマップする。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts
		 (id, email, name, password_hash, is_verified, last_login,
		  verification_token, verification_token_expires_at,
		  reset_password_token, reset_password_expires_at,
		  created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.IsVerified, account.LastLogin,
		account.VerificationToken, account.VerificationTokenExpiresAt,
		account.ResetPasswordToken, account.ResetPasswordExpiresAt,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// Update はアカウントの全可変フィールドを単一のUPDATEで永続化する。
// updated_atはここで更新する。
func (r *PostgresAccountRepo) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET
		   email = $2,
		   name = $3,
		   password_hash = $4,
		   is_verified = $5,
		   last_login = $6,
		   verification_token = $7,
		   verification_token_expires_at = $8,
		   reset_password_token = $9,
		   reset_password_expires_at = $10,
		   updated_at = $11
		 WHERE id = $1`,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.IsVerified, account.LastLogin,
		account.VerificationToken, account.VerificationTokenExpiresAt,
		account.ResetPasswordToken, account.ResetPasswordExpiresAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account not found: %s", account.ID)
	}
	return nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
