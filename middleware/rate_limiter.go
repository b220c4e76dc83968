package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"earnpro/utils"
)

// In-memory rate limiter with per-endpoint rules, trusted-proxy support,
// progressive penalties, and cleanup. Login lockout prefers Redis when
// configured so multiple instances agree.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// IPRateLimiter implements per-IP fixed-window counters with optional trusted-proxy parsing
type IPRateLimiter struct {
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
	instanceMax int
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		window:      window,
		state:       make(map[string]timestamps),
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
		instanceMax: maxReq,
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. X-Forwarded-For / X-Real-IP
// headers are honored only when the remote addr is inside one of the trusted
// CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware applies per-IP limits and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		arr := l.state[ip]
		var filtered timestamps
		cutoff := now - windowNs
		for _, ts := range arr {
			if ts >= cutoff {
				filtered = append(filtered, ts)
			}
		}
		filtered = append(filtered, now)
		l.state[ip] = filtered
		count := len(filtered)
		l.mu.Unlock()

		limit := l.instanceMax
		if limit <= 0 {
			limit = getEnvInt("RATE_IP_DEFAULT", 200)
		}
		if strings.Contains(r.URL.Path, "/auth/") {
			if envLimit := getEnvInt("RATE_IP_AUTH", -1); envLimit > 0 {
				limit = envLimit
			}
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > limit {
			retryAfter := retryAfterSeconds(filtered, now, windowNs, l.window)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Too many requests, try again later",
				"data":    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds derives the wait until the oldest request leaves the window.
func retryAfterSeconds(filtered timestamps, now, windowNs int64, window time.Duration) int {
	if len(filtered) == 0 {
		return int(window.Seconds())
	}
	oldest := filtered[0]
	for _, ts := range filtered {
		if ts < oldest {
			oldest = ts
		}
	}
	retryAfterNs := oldest + windowNs - now
	if retryAfterNs > 0 {
		return int(retryAfterNs / 1e9)
	}
	return 1
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		for k, arr := range l.state {
			cutoff := now - int64(l.window)
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// UserRateLimiter implements sliding window per user with per-endpoint rules and penalties
type UserRateLimiter struct {
	mu            sync.Mutex
	state         map[string]timestamps // key = userID:routeCategory
	penalty       map[string]penaltyInfo
	windowDefault time.Duration
	cleanupTick   time.Duration
	instanceRead  int
	instanceWrite int
}

type penaltyInfo struct {
	Level int
	Until int64 // unix nanos
}

func NewUserRateLimiter(maxReqRead, maxReqWrite int, windowSec int) *UserRateLimiter {
	window := time.Duration(windowSec) * time.Second
	l := &UserRateLimiter{
		state:         make(map[string]timestamps),
		penalty:       make(map[string]penaltyInfo),
		windowDefault: window,
		cleanupTick:   getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
		instanceRead:  maxReqRead,
		instanceWrite: maxReqWrite,
	}
	go l.cleanupLoop()
	return l
}

func routeCategory(path string) string {
	if strings.Contains(path, "/auth/") {
		return "auth"
	}
	if strings.Contains(path, "/admin/") {
		return "admin"
	}
	if strings.Contains(path, "/tasks/") && strings.HasSuffix(path, "/submit") {
		return "upload"
	}
	return "api"
}

func (l *UserRateLimiter) getLimitsForCategory(cat string, role string) (int, time.Duration) {
	switch cat {
	case "auth":
		return getEnvInt("RATE_USER_AUTH", 50), time.Minute
	case "upload":
		return getEnvInt("RATE_USER_UPLOAD", 10), time.Minute
	case "admin":
		if role == "admin" {
			return getEnvInt("RATE_USER_ADMIN", 500), time.Minute
		}
		return getEnvInt("RATE_USER_ADMIN", 50), time.Minute
	default:
		return getEnvInt("RATE_USER_API", 100), time.Minute
	}
}

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		roleVal := r.Context().Value(utils.UserRoleKey)
		var role string
		if s, ok2 := roleVal.(string); ok2 {
			role = s
		}
		// admin bypass
		if role == "admin" {
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			// unauthenticated endpoints are covered by the IP limiter
			next.ServeHTTP(w, r)
			return
		}
		userKey := fmt.Sprintf("u:%d", uid)
		cat := routeCategory(r.URL.Path)
		limit, window := l.getLimitsForCategory(cat, role)

		key := userKey + ":" + cat
		now := nowUnix()
		cutoff := now - int64(window)

		l.mu.Lock()
		arr := l.state[key]
		var filtered timestamps
		for _, ts := range arr {
			if ts >= cutoff {
				filtered = append(filtered, ts)
			}
		}
		filtered = append(filtered, now)
		l.state[key] = filtered
		count := len(filtered)

		pi := l.penalty[key]
		if pi.Until > now {
			retry := time.Duration(pi.Until-now) * time.Nanosecond
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Too many requests, try again later", "data": map[string]interface{}{"retry_after_seconds": int(retry.Seconds())}})
			l.mu.Unlock()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > limit {
			newLevel := pi.Level + 1
			var durationSec int
			switch newLevel {
			case 1:
				durationSec = 60
			case 2:
				durationSec = 5 * 60
			case 3:
				durationSec = 15 * 60
			default:
				durationSec = 30 * 60
			}
			l.penalty[key] = penaltyInfo{Level: newLevel, Until: now + int64(time.Duration(durationSec)*time.Second)}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", durationSec))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Too many requests, try again later", "data": map[string]interface{}{"retry_after_seconds": durationSec}})
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *UserRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		for k, arr := range l.state {
			cutoff := now - int64(l.windowDefault)
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		for k, p := range l.penalty {
			if p.Until < now {
				delete(l.penalty, k)
			}
		}
		l.mu.Unlock()
	}
}

// Account lockout tracker for failed logins
var (
	loginMu   sync.Mutex
	failedMap = make(map[string]int)   // key = u:<id> -> failures
	lockMap   = make(map[string]int64) // key -> lockUntil unix nanos
)

func IsAccountLocked(userID uint) (bool, time.Duration) {
	// Redis-backed lock when available for cross-instance consistency.
	if utils.RedisClient != nil {
		ctx := context.Background()
		lockKey := fmt.Sprintf("login:lock:u:%d", userID)
		ttl, err := utils.RedisClient.TTL(ctx, lockKey).Result()
		if err == nil && ttl > 0 {
			return true, ttl
		}
		return false, 0
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	until := lockMap[key]
	if until == 0 {
		return false, 0
	}
	now := nowUnix()
	if until > now {
		return true, time.Duration(until-now) * time.Nanosecond
	}
	delete(lockMap, key)
	failedMap[key] = 0
	return false, 0
}

func RecordFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey := fmt.Sprintf("login:fail:u:%d", userID)
		lockKey := fmt.Sprintf("login:lock:u:%d", userID)
		failures, err := utils.RedisClient.Incr(ctx, failKey).Result()
		if err != nil {
			goto mem
		}
		_, _ = utils.RedisClient.Expire(ctx, failKey, 30*time.Minute).Result()

		// progressive lockout: 1min, 5min, 15min, then 30min
		var duration time.Duration
		switch failures {
		case 1:
			duration = 1 * time.Minute
		case 2:
			duration = 5 * time.Minute
		case 3:
			duration = 15 * time.Minute
		default:
			duration = 30 * time.Minute
		}
		if failures >= 1 {
			_ = utils.RedisClient.Set(ctx, lockKey, "1", duration).Err()
		}
		return
	}

mem:
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	failedMap[key] = failedMap[key] + 1
	failures := failedMap[key]
	var durationSec int
	switch failures {
	case 1:
		durationSec = 60
	case 2:
		durationSec = 5 * 60
	case 3:
		durationSec = 15 * 60
	default:
		durationSec = 30 * 60
	}
	lockMap[key] = nowUnix() + int64(time.Duration(durationSec)*time.Second)
}

func ResetFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey := fmt.Sprintf("login:fail:u:%d", userID)
		lockKey := fmt.Sprintf("login:lock:u:%d", userID)
		_, _ = utils.RedisClient.Del(ctx, failKey, lockKey).Result()
		return
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	delete(lockMap, key)
	failedMap[key] = 0
}
