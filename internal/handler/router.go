package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/authgate/internal/metrics"
	"github.com/hitoshi/authgate/internal/middleware"
)

// resetTokenFromPath はURLパスからリセットトークンを取り出す。
func resetTokenFromPath(r *http.Request) string {
	return chi.URLParam(r, "token")
}

// Pinger はヘルスチェックが必要とするストア疎通確認のインターフェース。
// *sql.DB がこれを満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionVerifier   middleware.SessionVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger
	MetricsRecorder   middleware.HTTPRecorder
	Gatherer          prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 運用
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// セッションミドルウェアは /check-auth のみに適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)

	// --- 認証不要のルート ---

	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Post("/verify-email", authHandler.VerifyEmail)
	r.Post("/forgot-password", authHandler.ForgotPassword)
	r.Post("/reset-password/{token}", authHandler.ResetPassword)

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionVerifier))
		r.Get("/check-auth", authHandler.CheckAuth)
	})

	// --- 運用エンドポイント ---

	r.Get("/health", healthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}

// healthHandler はストアへの疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
