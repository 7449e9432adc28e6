package gateway

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/playgate/playgate/internal/config"
)

const requestIDHeader = "X-Request-Id"

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", rec.Header().Get(requestIDHeader),
			)
		})
	}
}

// rateLimitMiddleware applies a per-client token bucket keyed by remote IP.
func rateLimitMiddleware(cfg config.RateLimiterConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := newClientLimiter(rate.Limit(cfg.Rate), cfg.Burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !limiter.allow(host) {
				logger.Debug("request rate limited", "client", host, "path", r.URL.Path)
				writeJSON(w, http.StatusTooManyRequests, apiResponse{Success: false, Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	// clientIdleTTL is how long a client entry survives without traffic
	// before it is dropped; idle clients must not pin memory forever.
	clientIdleTTL       = 10 * time.Minute
	clientSweepInterval = time.Minute
)

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiter struct {
	rate  rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		rate:      r,
		burst:     burst,
		clients:   make(map[string]*clientEntry),
		lastSweep: time.Now(),
	}
}

func (l *clientLimiter) allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) >= clientSweepInterval {
		for id, e := range l.clients {
			if now.Sub(e.lastSeen) > clientIdleTTL {
				delete(l.clients, id)
			}
		}
		l.lastSweep = now
	}

	e, exists := l.clients[identifier]
	if !exists {
		e = &clientEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[identifier] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}
