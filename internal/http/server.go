package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"incassi/internal/log"
	"incassi/internal/services"
	"incassi/internal/store"
)

// Server is the HTTP front of the dashboard. It embeds http.Server so the
// caller drives ListenAndServe and Shutdown directly.
type Server struct {
	http.Server

	dashboard *services.DashboardService
	settings  *services.SettingsService
	ingestor  *services.Ingestor
	store     store.Store

	adminPassword string
	logger        *log.StructuredLogger

	shutdownOnce sync.Once
}

// Deps carries everything the server needs. All fields are required.
type Deps struct {
	Dashboard     *services.DashboardService
	Settings      *services.SettingsService
	Ingestor      *services.Ingestor
	Store         store.Store
	AdminPassword string
	Logger        *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		dashboard:     deps.Dashboard,
		settings:      deps.Settings,
		ingestor:      deps.Ingestor,
		store:         deps.Store,
		adminPassword: deps.AdminPassword,
		logger:        log.NewStructuredLogger(logger.WithComponent(log.ComponentHTTP)),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/api/admin/settings", s.withSecurityHeaders(s.withAdminAuth(s.handleSaveSettings)))
	mux.HandleFunc("/api/admin/record", s.withSecurityHeaders(s.withAdminAuth(s.handleRecordEntry)))
	mux.HandleFunc("/api/admin/upload", s.withSecurityHeaders(s.withAdminAuth(s.handleBulkUpload)))

	return s
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.LogHTTPStart(ctx, r, ip)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	}
}

// withAdminAuth gates a handler behind the shared admin password. The compare
// is constant time; a missing header fails the same way as a wrong one.
func (s *Server) withAdminAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		given := r.Header.Get("X-Admin-Password")
		if subtle.ConstantTimeCompare([]byte(given), []byte(s.adminPassword)) != 1 {
			s.logger.LogError(r.Context(), "Admin auth failed", nil,
				log.ComponentSecurity, log.OpValidate,
				log.NewFields().WithClientIP(clientIP(r)))
			writeError(w, http.StatusUnauthorized, "invalid admin password")
			return
		}
		next(w, r)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
