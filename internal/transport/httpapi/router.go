package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/danuarta/dompetku/internal/transport/httpapi/handler"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
	"github.com/danuarta/dompetku/pkg/logger"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	WalletHandler      *handler.WalletHandler
	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	BudgetHandler      *handler.BudgetHandler
	ReportHandler      *handler.ReportHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				// Wallet routes
				if cfg.WalletHandler != nil {
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Get("/wallets", cfg.WalletHandler.GetWallets)
					r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
					r.Put("/wallets/{id}", cfg.WalletHandler.UpdateWallet)
					r.Post("/wallets/{id}/toggle", cfg.WalletHandler.ToggleWallet)
				}

				// Transaction routes
				if cfg.TransactionHandler != nil {
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
					r.Get("/transactions/summary", cfg.TransactionHandler.GetSummary)
					r.Get("/transactions/{id}", cfg.TransactionHandler.GetTransaction)
					r.Put("/transactions/{id}", cfg.TransactionHandler.UpdateTransaction)
					r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
				}

				// Category routes
				if cfg.CategoryHandler != nil {
					r.Get("/categories", cfg.CategoryHandler.GetCategories)
				}

				// Budget routes
				if cfg.BudgetHandler != nil {
					r.Get("/budgets", cfg.BudgetHandler.GetBudgets)
					r.Get("/budgets/recommendations", cfg.BudgetHandler.GetRecommendations)
					r.Post("/budgets", cfg.BudgetHandler.SetBudget)
					r.Put("/budgets/{id}", cfg.BudgetHandler.UpdateBudget)
					r.Delete("/budgets/{id}", cfg.BudgetHandler.DeleteBudget)
				}

				// Report routes
				if cfg.ReportHandler != nil {
					r.Get("/tracker", cfg.ReportHandler.GetTracker)
					r.Get("/reports/statement", cfg.ReportHandler.GetStatement)
					r.Get("/reports/statement/export", cfg.ReportHandler.ExportStatement)
				}
			})
		}
	})

	return r
}
