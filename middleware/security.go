package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"earnpro/utils"
)

// generateRequestID creates a short random request id
func generateRequestID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SecurityHeadersMiddleware sets baseline security headers. CORS is handled
// separately by the router so preflight requests never reach the handlers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	env := strings.ToLower(getenv("ENV", "development"))
	hsts := getenv("SEC_HSTS", "false")
	csp := getenv("SEC_CSP", "default-src 'none'; frame-ancestors 'none'; base-uri 'self';")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		if env != "development" {
			w.Header().Set("Content-Security-Policy", csp)
		}
		if hsts == "true" {
			// 1 year HSTS
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// responseRecorder wraps ResponseWriter to capture status code
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogMiddleware logs every request and response to stdout
func RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: 200}
		log.Printf("[REQ] %s %s content-type=%s", r.Method, r.URL.Path, r.Header.Get("Content-Type"))
		next.ServeHTTP(rec, r)
		log.Printf("[RESP] %s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}

// RequestIDMiddleware injects a request id into context and response headers
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = generateRequestID()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), utils.RequestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TimeoutMiddleware cancels the request context after a configured timeout
func TimeoutMiddleware(next http.Handler) http.Handler {
	timeoutSec := atoi(getenv("REQ_TIMEOUT_SEC", "10"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeoutSec)*time.Second)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryMiddleware recovers from panics, logs with request context and
// returns a generic 500
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				ridVal := r.Context().Value(utils.RequestIDKey)
				rid := ""
				if s, ok := ridVal.(string); ok {
					rid = s
				}
				log.Printf("PANIC recovered: request_id=%s method=%s path=%s panic=%v\n%s", rid, r.Method, r.URL.Path, rec, string(debug.Stack()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Internal server error", "request_id": rid})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Helper: atoi with default
func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}
