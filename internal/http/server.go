// Package http exposes the REST API for the ledger.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"financas/internal/auth"
	"financas/internal/backend"
	"financas/internal/cache"
	"financas/internal/config"
	applog "financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"
)

type Server struct {
	http.Server

	logger     *applog.Logger
	records    backend.Backend
	dashboards *services.DashboardService

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	summaryCache *cache.LRUCache[services.DashboardSummary]
	reportCache  *cache.LRUCache[services.MonthlyReport]
	goalsCache   *cache.LRUCache[services.GoalsSummary]

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, logger *applog.Logger, records backend.Backend, verifier auth.Verifier) *Server {
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	s := &Server{
		logger:       logger.WithComponent(applog.ComponentHTTP),
		records:      records,
		dashboards:   services.NewDashboardService(records, logger),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		cacheManager: cache.NewManager(),
		summaryCache: cache.NewLRUCache[services.DashboardSummary](256, cacheTTL),
		reportCache:  cache.NewLRUCache[services.MonthlyReport](512, cacheTTL),
		goalsCache:   cache.NewLRUCache[services.GoalsSummary](256, cacheTTL),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.Register(s.goalsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/entradas", s.handleListIncomes)
	api.HandleFunc("POST /api/entradas", s.handleCreateIncome)
	api.HandleFunc("PUT /api/entradas/{id}", s.handleUpdateIncome)
	api.HandleFunc("DELETE /api/entradas/{id}", s.handleDeleteIncome)

	api.HandleFunc("GET /api/saidas", s.handleListExpenses)
	api.HandleFunc("POST /api/saidas", s.handleCreateExpense)
	api.HandleFunc("PUT /api/saidas/{id}", s.handleUpdateExpense)
	api.HandleFunc("DELETE /api/saidas/{id}", s.handleDeleteExpense)

	api.HandleFunc("GET /api/metas", s.handleListGoals)
	api.HandleFunc("POST /api/metas", s.handleCreateGoal)
	api.HandleFunc("PUT /api/metas/{id}", s.handleUpdateGoal)
	api.HandleFunc("DELETE /api/metas/{id}", s.handleDeleteGoal)

	api.HandleFunc("GET /api/dashboard/resumo", s.handleDashboardSummary)
	api.HandleFunc("GET /api/relatorios/mensal", s.handleMonthlyReport)
	api.HandleFunc("GET /api/metas/resumo", s.handleGoalsSummary)

	authMW := auth.NewMiddleware(verifier, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", authMW.Handler(api))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	ipExtractor := security.NewClientIPExtractor()
	corsMW := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var handler http.Handler = mux
	handler = corsMW.Handler(handler)
	handler = s.limiter.Middleware(ipExtractor.ExtractClientIP)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = applog.Middleware(s.logger)(handler)
	handler = trace.NewMiddleware(ipExtractor.ExtractClientIP).Handler(handler)

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown stops the server along with its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.records.ListGoals(r.Context(), "readiness-probe"); err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateUser drops every cached view for one user after a write.
func (s *Server) invalidateUser(userID string) {
	prefix := userID + "/"
	s.summaryCache.DeletePrefix(prefix)
	s.reportCache.DeletePrefix(prefix)
	s.goalsCache.DeletePrefix(prefix)
}
