// Package auth はアカウント資格情報とトークンのライフサイクルを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/authgate/internal/model"
	"github.com/hitoshi/authgate/internal/repository"
)

// Mailer は通知ディスパッチャーのインターフェース。
// 送信失敗はerrorで返し、呼び出し側でサーバーエラーとして扱う。
type Mailer interface {
	// SendVerificationEmail は6桁の検証コードを送信する。
	SendVerificationEmail(to, name, code string) error
	// SendWelcomeEmail は検証完了後のウェルカムメールを送信する。
	SendWelcomeEmail(to, name string) error
	// SendPasswordResetEmail は生トークンを埋め込んだリセットリンクを送信する。
	SendPasswordResetEmail(to, resetURL string) error
	// SendResetSuccessEmail はパスワード変更完了通知を送信する。
	SendResetSuccessEmail(to string) error
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BaseURL string // リセットリンクの組み立てに使用する外向きURL
}

// Service はアカウントライフサイクルの5フロー（signup/login/verify-email/
// forgot-password/reset-password）とcheck-authを提供する。
// 各フローはリクエストスコープで状態を持たず、失敗時の部分的な副作用は
// 自動リトライしない（呼び出し側の再送に委ねる）。
type Service struct {
	accounts repository.AccountRepository
	hasher   *PasswordHasher
	sessions *SessionManager
	mailer   Mailer
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	accounts repository.AccountRepository,
	hasher *PasswordHasher,
	sessions *SessionManager,
	mailer Mailer,
	config ServiceConfig,
) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		sessions: sessions,
		mailer:   mailer,
		config:   config,
	}
}

// Signup は新規アカウントを作成し、セッション資格情報を発行する。
// 順序が重要: 永続化 → セッション発行 → 検証メール送信。
// 通知の失敗はアカウント作成もセッション発行も巻き戻さないが、
// アカウント作成の失敗は両方を防ぐ。
// ユーザーは検証前からログイン状態になる。
func (s *Service) Signup(ctx context.Context, email, password, name string) (*model.Account, string, error) {
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailConflictError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsVerified:   false,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account.SetVerificationToken(code, now.Add(VerificationCodeTTL))

	if err := s.accounts.Create(ctx, account); err != nil {
		if err == repository.ErrDuplicateEmail {
			// 事前チェックとCreateの間に競合した場合もConflictに揃える
			return nil, "", model.NewEmailConflictError()
		}
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	credential, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	slog.Info("account created",
		slog.String("account_id", account.ID),
	)

	if err := s.mailer.SendVerificationEmail(account.Email, account.Name, code); err != nil {
		// アカウントは既に永続化済み。送信失敗はサーバーエラーとして
		// 表面化させるが、作成は巻き戻さない。
		return nil, "", fmt.Errorf("failed to dispatch verification email: %w", err)
	}

	return account, credential, nil
}

// Login はメールアドレスとパスワードを照合し、セッション資格情報を発行する。
// アカウント不存在とパスワード不一致は呼び出し側から区別できない
// （アカウント存在の列挙防止）。成功時はlastLoginを前進させる。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, "", model.NewInvalidCredentialsError()
	}

	credential, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, "", err
	}

	account.LastLogin = time.Now()
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}

	slog.Info("account logged in",
		slog.String("account_id", account.ID),
	)

	return account, credential, nil
}

// VerifyEmail は検証コードを照合し、アカウントを検証済みにする。
// コード不一致と期限切れは単一の述語で評価され、結果は区別できない
// （トークン推測のオラクル防止）。
// 検証フラグの適用とトークンペアのクリアは同一の永続化操作で行う。
func (s *Service) VerifyEmail(ctx context.Context, code string) (*model.Account, error) {
	account, err := s.accounts.FindByActiveVerificationToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification code: %w", err)
	}
	if account == nil {
		return nil, model.NewTokenInvalidOrExpiredError("verification code")
	}

	account.IsVerified = true
	account.ClearVerificationToken()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist verification: %w", err)
	}

	slog.Info("account verified",
		slog.String("account_id", account.ID),
	)

	if err := s.mailer.SendWelcomeEmail(account.Email, account.Name); err != nil {
		return nil, fmt.Errorf("failed to dispatch welcome email: %w", err)
	}

	return account, nil
}

// ForgotPassword はリセットトークンペアを発行し、リセットリンクをメールで送る。
// アカウントが存在しない場合は明示的に"User not found"を返す。
// これはloginと異なりアカウント存在を漏らす挙動だが、元仕様のまま保存している
// （勝手に均さないこと）。
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return model.NewUserNotFoundError()
	}

	token, err := GenerateResetToken()
	if err != nil {
		return err
	}

	// 既存の保留中リセットは上書きされる
	account.SetResetPasswordToken(token, time.Now().Add(ResetTokenTTL))

	if err := s.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	resetURL := s.config.BaseURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordResetEmail(account.Email, resetURL); err != nil {
		return fmt.Errorf("failed to dispatch password reset email: %w", err)
	}

	slog.Info("password reset requested",
		slog.String("account_id", account.ID),
	)

	return nil
}

// ResetPassword はリセットトークンを照合し、新しいパスワードを適用する。
// トークン不一致と期限切れは区別できない。
// パスワードの上書きとトークンペアのクリアは同一の永続化操作で行うため、
// 効果が適用されたのにトークンが有効なまま残る状態は存在しない。
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*model.Account, error) {
	account, err := s.accounts.FindByActiveResetToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	if account == nil {
		return nil, model.NewTokenInvalidOrExpiredError("reset token")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	account.PasswordHash = hash
	account.ClearResetPasswordToken()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist new password: %w", err)
	}

	slog.Info("password reset completed",
		slog.String("account_id", account.ID),
	)

	if err := s.mailer.SendResetSuccessEmail(account.Email); err != nil {
		return nil, fmt.Errorf("failed to dispatch reset success email: %w", err)
	}

	return account, nil
}

// CheckAuth は検証済みセッションのアカウントIDからアカウントを解決する。
// 返されるアカウントはクエリ層でpassword_hashが除外されている。
func (s *Service) CheckAuth(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, model.NewUserNotFoundError()
	}
	return account, nil
}
