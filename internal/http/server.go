// Package http exposes the grocery session over a small JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"boodschappen/internal/cache"
	applog "boodschappen/internal/log"
	"boodschappen/internal/services"
)

type Server struct {
	http.Server
	session     *services.Session
	rateLimiter *rateLimiter

	// Read endpoints are cheap but chat traffic can hammer them; the
	// summary is cached per month key and purged on every mutation.
	summaryCache *cache.LRU[summaryResponse]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Caches register with the manager for the expiry sweep.
func NewServer(addr string, session *services.Session, caches *cache.Manager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		session:      session,
		rateLimiter:  newRateLimiter(60, time.Minute),
		summaryCache: cache.NewLRU[summaryResponse](16, time.Minute),
	}
	if caches != nil {
		caches.Register(s.summaryCache)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/chat", s.withRequestContext(s.handleChat))
	mux.HandleFunc("/api/items", s.withRequestContext(s.handleItems))
	mux.HandleFunc("/api/summary", s.withRequestContext(s.handleSummary))
	mux.HandleFunc("/api/settings", s.withRequestContext(s.handleSettings))
	mux.HandleFunc("/api/week/close", s.withRequestContext(s.handleCloseWeek))
	mux.HandleFunc("/api/month/close", s.withRequestContext(s.handleCloseMonth))
	mux.HandleFunc("/api/month/clear", s.withRequestContext(s.handleClearMonth))

	return s
}

// withRequestContext adds request logging, rate limiting for mutations and
// baseline security headers.
func (s *Server) withRequestContext(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		logger := applog.FromContext(ctx)
		logger.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, ip)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(ip) {
			logger.Warn("Rate limit exceeded", applog.FieldClientIP, ip, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the rate limiter cleanup goroutine and shuts down the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
