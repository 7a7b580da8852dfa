package handlers

import (
	"encoding/gob"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/gorilla/sessions"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(FlashMessage{})
	gob.Register(PendingBooking{})
}

// LoggingMiddleware logs the details of each HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
		)
	})
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		// Catalog images are hosted elsewhere, so https: is allowed for img-src.
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; script-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter allows one request per client host per window.
type RateLimiter struct {
	visitors sync.Map // host -> time.Time of the last allowed request
	window   time.Duration
}

// NewRateLimiter starts a limiter whose stale entries are swept every minute.
func NewRateLimiter(window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		window: window,
	}
	go rl.cleanup(time.Minute)
	return rl
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		rl.sweep(now)
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.visitors.Range(func(key, value interface{}) bool {
		if now.Sub(value.(time.Time)) > rl.window {
			rl.visitors.Delete(key)
		}
		return true
	})
}

// Allow records a request from host and reports whether it is within the limit.
func (rl *RateLimiter) Allow(host string, now time.Time) bool {
	if lastSeen, ok := rl.visitors.Load(host); ok && now.Sub(lastSeen.(time.Time)) < rl.window {
		return false
	}
	rl.visitors.Store(host, now)
	return true
}

// Middleware enforces the rate limit
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := clientHost(r)
		if !rl.Allow(host, time.Now()) {
			slog.Warn("Rate limit exceeded", "ip", host, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.window.Seconds()))))
			http.Error(w, "Too Many Requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientHost is RemoteAddr without the port, which changes per connection.
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequireUser redirects anonymous visitors to the login page, remembering
// where they were going.
func (b *Base) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			b.flashError(w, r, auth.ErrNoSession, "")
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAdmin only lets admin users through.
func (b *Base) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := auth.FromContext(r.Context())
		if !ok || !sess.IsAdmin() {
			slog.Info("Admin access denied", "path", r.URL.Path, "logged_in", ok)
			b.flashError(w, r, auth.ErrForbidden, "")
			http.Redirect(w, r, loginURL(r), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func loginURL(r *http.Request) string {
	target := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		target = r.Referer()
		if u, err := url.Parse(target); err == nil {
			target = u.RequestURI()
		}
	}
	return "/login?next=" + url.QueryEscape(safeNext(target))
}

// safeNext only allows local paths as post-login redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// FlashMessage structure
type FlashMessage struct {
	Type    string
	Message string
}

// GetFlash retrieves flash messages from the session
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
