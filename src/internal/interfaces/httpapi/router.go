// Package httpapi 提供發放服務的兩種傳輸方式：callable RPC 與 plain HTTP。
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackyeh168/point_grant/src/internal/application/grant"
	pointsapp "github.com/jackyeh168/point_grant/src/internal/application/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
)

// TokenVerifier 驗證 bearer 憑證
type TokenVerifier interface {
	Verify(token string) (*access.Issuer, error)
}

// BalanceReader 查詢帳戶餘額
type BalanceReader interface {
	Execute(ctx context.Context, issuer *access.Issuer, query pointsapp.GetBalanceQuery) (*pointsapp.GetBalanceResult, error)
}

// Config 路由設定
type Config struct {
	Service        grant.GrantService
	Verifier       TokenVerifier
	Balances       BalanceReader // nil 時不註冊 /accounts
	Logger         *slog.Logger
	AllowedOrigins []string
	// Health 為 nil 時 /healthz 永遠回報正常
	Health func(ctx context.Context) error
}

// Handler 傳輸層處理器
type Handler struct {
	service  grant.GrantService
	verifier TokenVerifier
	balances BalanceReader
	logger   *slog.Logger
	health   func(ctx context.Context) error
}

// NewRouter 建立 chi 路由
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		service:  cfg.Service,
		verifier: cfg.Verifier,
		balances: cfg.Balances,
		logger:   logger,
		health:   cfg.Health,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(cfg.AllowedOrigins))

	r.Get("/healthz", h.Healthz)

	// Callable RPC：身份由 callerContext 預先驗證
	r.Group(func(r chi.Router) {
		r.Use(callerContext(cfg.Verifier))
		r.Post("/grantPoints", h.GrantPointsRPC)
		r.Post("/claimPoints", h.ClaimPointsRPC)
	})

	// Plain HTTP：處理器自行驗證 bearer 憑證
	r.Route("/grantPointsHttp", func(r chi.Router) {
		r.Post("/", h.GrantPointsHTTP)
	})
	r.Route("/claimPointsHttp", func(r chi.Router) {
		r.Post("/", h.ClaimPointsHTTP)
	})
	r.Route("/audit", func(r chi.Router) {
		r.Get("/", h.ListAuditRecords)
		r.Get("/{auditId}", h.GetAuditRecord)
	})
	if cfg.Balances != nil {
		r.Get("/accounts/{uid}", h.GetBalance)
	}

	return r
}
