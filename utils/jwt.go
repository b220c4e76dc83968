package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"earnpro/database"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RedisClient is an optional shared Redis client used for token revocation and
// login lockout coordination. It stays nil when REDIS_ADDR is not configured.
var RedisClient *redis.Client

func init() {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	addr = strings.ReplaceAll(addr, " ", "")
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("warning: redis ping failed: %v\n", err)
		// revocation falls back to the DB when redis is unreachable
		return
	}
	RedisClient = rc
}

type contextKey string

const UserIDKey = contextKey("userID")
const UserRoleKey = contextKey("userRole")
const RequestIDKey = contextKey("requestID")

// GenerateJWT issues an HS256 token for the given principal. Admin tokens live
// 6 hours, user tokens 24 hours.
func GenerateJWT(id int64, username, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	var expTime time.Duration
	if role == "admin" {
		expTime = time.Hour * 6
	} else {
		expTime = time.Hour * 24
	}

	now := time.Now()
	jti, err := generateJTI(32)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":       id,
		"username": username,
		"role":     role,
		"exp":      now.Add(expTime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      jti,
		"aud":      os.Getenv("JWT_AUD"),
		"iss":      os.Getenv("JWT_ISS"),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken parses and validates an access token, including the jti
// revocation store (Redis when configured, revoked_tokens table otherwise).
func ValidateAccessToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil, errors.New("JWT_SECRET is not set")
	}
	token, err := jwt.ParseWithClaims(tokenStr, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Require exact HS256 algorithm to avoid algorithm confusion.
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return token, nil, errors.New("invalid claims")
	}

	now := time.Now()
	if expRaw, ok := claims["exp"].(float64); ok && now.Unix() > int64(expRaw) {
		return token, nil, errors.New("token expired")
	}
	if nbfRaw, ok := claims["nbf"].(float64); ok && now.Unix() < int64(nbfRaw) {
		return token, nil, errors.New("token not yet valid")
	}

	if audEnv := os.Getenv("JWT_AUD"); audEnv != "" {
		if audRaw, ok := claims["aud"].(string); !ok || audRaw != audEnv {
			return token, nil, errors.New("invalid audience")
		}
	}
	if issEnv := os.Getenv("JWT_ISS"); issEnv != "" {
		if issRaw, ok := claims["iss"].(string); !ok || issRaw != issEnv {
			return token, nil, errors.New("invalid issuer")
		}
	}

	if jtiRaw, ok := claims["jti"].(string); ok && jtiRaw != "" {
		if IsJTIRevoked(jtiRaw) {
			return token, nil, errors.New("token revoked")
		}
	}

	return token, claims, nil
}

// IsJTIRevoked checks the revocation store. Store outages are treated as not
// revoked so an infrastructure failure does not lock everyone out.
func IsJTIRevoked(jti string) bool {
	if RedisClient != nil {
		res, err := RedisClient.Get(context.Background(), "jwt:blacklist:"+jti).Result()
		return err == nil && res == "1"
	}
	if database.DB != nil {
		var rec struct {
			ID string `gorm:"primaryKey"`
		}
		err := database.DB.Table("revoked_tokens").Where("id = ?", jti).First(&rec).Error
		if err == nil {
			return true
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false
		}
	}
	return false
}

// RevokeJTI inserts a jti into the revocation store. With Redis the key
// carries a TTL matching the token's remaining lifetime; the DB fallback keeps
// the row until a cleanup pass.
func RevokeJTI(jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if RedisClient != nil {
		return RedisClient.Set(context.Background(), "jwt:blacklist:"+jti, "1", ttl).Err()
	}
	if database.DB != nil {
		res := database.DB.Exec("INSERT INTO revoked_tokens (id, revoked_at) VALUES (?, ?)", jti, time.Now())
		return res.Error
	}
	return errors.New("no revocation store configured")
}

// ExtractUserIDFromRequest parses the bearer token and returns the user ID.
func ExtractUserIDFromRequest(r *http.Request) (uint, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return 0, errors.New("missing or invalid Authorization header")
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	_, claims, err := ValidateAccessToken(tokenStr)
	if err != nil {
		return 0, err
	}
	rawID, ok := claims["id"]
	if !ok {
		return 0, errors.New("invalid token payload")
	}
	switch v := rawID.(type) {
	case float64:
		return uint(v), nil
	case int:
		return uint(v), nil
	case string:
		return parseUintString(v)
	default:
		return 0, errors.New("invalid token payload")
	}
}

func parseUintString(s string) (uint, error) {
	var n uint64
	_, err := fmt.Sscanf(s, "%d", &n)
	return uint(n), err
}

// generateJTI creates a random lowercase hex identifier used as JWT ID.
func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = hex[int(b[i])%len(hex)]
	}
	return string(out), nil
}

// GetUserID reads the authenticated user ID injected by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	id, ok := v.(uint)
	return id, ok
}
