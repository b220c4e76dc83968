package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	ip := clientIPGeneric(req, nil)
	if ip != "203.0.113.5" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	// trustedCIDR contains the remote IP
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "198.51.100.11" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func TestIPRateLimiter_BlocksOverLimit(t *testing.T) {
	l := NewIPRateLimiter(3, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "http://example.local/v1/users/info", nil)
		req.RemoteAddr = "203.0.113.20:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "http://example.local/v1/users/info", nil)
	req.RemoteAddr = "203.0.113.20:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header on 429")
	}
}

func TestIPRateLimiter_SeparateIPs(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"203.0.113.30:1", "203.0.113.31:1"} {
		req := httptest.NewRequest("GET", "http://example.local/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("first request from %s: status %d, want 200", addr, rec.Code)
		}
	}
}

func TestAccountLockoutProgression(t *testing.T) {
	const uid = 424242
	ResetFailedLogin(uid)
	defer ResetFailedLogin(uid)

	if locked, _ := IsAccountLocked(uid); locked {
		t.Fatal("account locked before any failures")
	}

	RecordFailedLogin(uid)
	locked, wait := IsAccountLocked(uid)
	if !locked {
		t.Fatal("account not locked after first failure")
	}
	if wait <= 0 || wait > time.Minute {
		t.Errorf("first lockout = %v, want (0, 1m]", wait)
	}

	RecordFailedLogin(uid)
	_, wait = IsAccountLocked(uid)
	if wait <= time.Minute {
		t.Errorf("second lockout = %v, want > 1m", wait)
	}

	ResetFailedLogin(uid)
	if locked, _ := IsAccountLocked(uid); locked {
		t.Fatal("account still locked after reset")
	}
}

func TestRouteCategory(t *testing.T) {
	cases := map[string]string{
		"/v1/auth/login":       "auth",
		"/v1/admin/users":      "admin",
		"/v1/tasks/5/submit":   "upload",
		"/v1/users/info":       "api",
		"/v1/users/earn/spin":  "api",
		"/v1/users/withdrawal": "api",
	}
	for path, want := range cases {
		if got := routeCategory(path); got != want {
			t.Errorf("routeCategory(%q) = %q, want %q", path, got, want)
		}
	}
}
