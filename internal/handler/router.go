package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kakeibo/internal/middleware"
)

// HealthChecker はデータベース接続の死活確認インターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 観測系（nil可: nilの場合は対応するミドルウェアをスキップする）
	Logger  *slog.Logger
	Metrics middleware.HTTPMetricsRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ユーザー
	UserService UserServiceInterface

	// カテゴリ
	CategoryService CategoryServiceInterface

	// 支出・集計
	ExpenseService ExpenseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS → [認証ルートのみ: RateLimit(Auth)]
//	認証必須グループ: Session → RateLimit(General)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	categoryHandler := NewCategoryHandler(deps.CategoryService)
	expenseHandler := NewExpenseHandler(deps.ExpenseService)
	statsHandler := NewStatsHandler(deps.ExpenseService)

	// --- 認証不要のルート ---

	// ヘルスチェック（DB接続の死活も報告する）
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		dbStatus := "ok"
		status := "ok"
		code := http.StatusOK
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				dbStatus = "unavailable"
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   status,
			"database": map[string]string{"status": dbStatus},
		})
	})

	// サインアップ・ログイン（総当たり対策のIP単位レート制限を適用）
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/signup", authHandler.Signup)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 現在のユーザー
		r.Get("/auth/me", userHandler.Me)

		// カテゴリ管理
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Delete("/{id}", categoryHandler.DeleteCategory)
		})

		// 支出管理
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenseHandler.ListExpenses)
			r.Post("/", expenseHandler.CreateExpense)
			r.Delete("/{id}", expenseHandler.DeleteExpense)
		})

		// 集計
		r.Get("/stats", statsHandler.GetStats)
	})

	return r
}
