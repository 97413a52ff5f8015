// Package http exposes the ledger, goals, categories, accounts and reports
// as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Ad2m1109/Spendora/internal/backend"
	"github.com/Ad2m1109/Spendora/internal/log"
	"github.com/Ad2m1109/Spendora/internal/middleware/security"
	"github.com/Ad2m1109/Spendora/internal/middleware/trace"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// Config holds the listener and cross-origin settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

type Server struct {
	http.Server
	svc    *backend.Services
	logger *log.Logger
}

func NewServer(cfg Config, svc *backend.Services, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	s := &Server{
		svc:    svc,
		logger: logger.WithComponent(log.ComponentHTTP),
	}
	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg Config) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	ips := security.NewClientIPResolver()

	r := chi.NewRouter()
	r.Use(log.Middleware(s.logger))
	r.Use(trace.NewMiddleware(ips.ClientIP).Middleware)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders:   []string{trace.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/auth", func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentAuth))
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/check-user-exists", s.handleCheckUserExists)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(s.svc.Tokens.Middleware)
		r.Get("/{id}", s.handleGetUser)
		r.Put("/{id}", s.handleUpdateUser)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.Post("/", s.handleCreateCategory)
		r.Get("/{id}", s.handleGetCategory)
		r.Delete("/{id}", s.handleDeleteCategory)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentLedger))
		r.Post("/", s.handleCreateTransaction)
		r.Get("/", s.handleListTransactions)
		r.Post("/get", s.handleListTransactionsByBody)
		r.Put("/{id}", s.handleUpdateTransaction)
		r.Delete("/{id}", s.handleDeleteTransaction)
		r.Post("/metrics", s.handleMetrics)
		r.Post("/expense-categories-chart", s.handleExpenseChart)
		r.Post("/income-categories-chart", s.handleIncomeChart)
		r.Post("/daily-net-savings-chart", s.handleDailyNetSavingsChart)
	})

	r.Get("/dashboard", s.handleDashboard)

	r.Route("/goals", func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentGoals))
		r.Post("/", s.handleCreateGoal)
		r.Get("/", s.handleListGoals)
		r.Put("/{id}", s.handleUpdateGoal)
		r.Delete("/{id}", s.handleDeleteGoal)
		r.Post("/{id}/reconcile", s.handleReconcileGoal)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Use(log.ComponentMiddleware(log.ComponentReports))
		r.Post("/", s.handleCreateReport)
		r.Get("/", s.handleListReports)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 while the store cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.Store.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
