// Package http exposes the tracker over a JSON API: ledger mutations, the
// balance endpoints and the report aggregations, with per-user report caching.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/cache"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/ledger"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/log"
	"github.com/ankitjangid02/Expense-Tracker-Web-App/internal/report"
)

// Server wires the ledger session manager and the report caches behind an
// http.Server.
type Server struct {
	httpServer *http.Server
	sessions   *ledger.Manager
	logger     *log.Logger
	structured *log.StructuredLogger

	periodCache   *cache.LRUCache[[]report.Bucket]
	categoryCache *cache.LRUCache[[]report.CategoryTotal]
	cacheManager  *cache.Manager
}

// Options configure the server beyond its collaborators.
type Options struct {
	Addr            string
	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

// NewServer builds the server and its routes. The report caches are
// registered with a cleanup manager that runs until Shutdown.
func NewServer(opts Options, sessions *ledger.Manager, logger *log.Logger) *Server {
	s := &Server{
		sessions:      sessions,
		logger:        logger.WithComponent(log.ComponentHTTP),
		structured:    log.NewStructuredLogger(logger),
		periodCache:   cache.NewLRUCache[[]report.Bucket](opts.ReportCacheSize, opts.ReportCacheTTL),
		categoryCache: cache.NewLRUCache[[]report.CategoryTotal](opts.ReportCacheSize, opts.ReportCacheTTL),
		cacheManager:  cache.NewManager(),
	}
	s.cacheManager.Register(s.periodCache)
	s.cacheManager.Register(s.categoryCache)
	s.cacheManager.StartCleanup(opts.ReportCacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("PUT /api/users/{userID}/balance", s.handleSetBalance)
	mux.HandleFunc("GET /api/users/{userID}/balance", s.handleGetBalance)

	mux.HandleFunc("POST /api/users/{userID}/transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /api/users/{userID}/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/users/{userID}/transactions/{id}", s.handleRemoveTransaction)

	mux.HandleFunc("GET /api/users/{userID}/reports/periods", s.handlePeriodReport)
	mux.HandleFunc("GET /api/users/{userID}/reports/categories", s.handleCategoryReport)
	mux.HandleFunc("GET /api/users/{userID}/reports/summary", s.handleSummaryReport)
	mux.HandleFunc("GET /api/users/{userID}/reports/running-balance", s.handleRunningBalance)

	mux.HandleFunc("POST /api/users/{userID}/logout", s.handleLogout)

	handler := log.Middleware(logger)(s.logRequests(mux))

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// ListenAndServe starts serving. It blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", log.FieldPath, s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, stops the cache cleanup routine and
// discards all open ledger sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.cacheManager.Stop()
	s.sessions.CloseAll()
	return err
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := generateRequestID()
		reqLogger := log.FromContext(r.Context()).With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, reqLogger)

		s.structured.LogHTTPStart(ctx, r, ip)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.structured.LogHTTPEnd(ctx, r, rec.status, time.Since(start).Milliseconds(), ip)
	})
}

// invalidateReports drops every cached report for the user. Called after any
// ledger mutation so readers never see aggregates computed from a stale
// transaction set.
func (s *Server) invalidateReports(userID string) {
	s.periodCache.DeletePrefix(userID + ":")
	s.categoryCache.DeletePrefix(userID + ":")
}
