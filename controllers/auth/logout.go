package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"earnpro/utils"
)

// LogoutHandler revokes the access token's jti so the token stops working
// before its natural expiry.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	_, claims, err := utils.ValidateAccessToken(tokenStr)
	if err != nil {
		// Already invalid tokens are logged out by definition.
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
		return
	}

	if jtiRaw, ok := claims["jti"].(string); ok && jtiRaw != "" {
		var ttl time.Duration
		if expRaw, ok := claims["exp"].(float64); ok {
			ttl = time.Until(time.Unix(int64(expRaw), 0))
		}
		if ttl < 0 {
			ttl = 0
		}
		if err := utils.RevokeJTI(jtiRaw, ttl); err != nil {
			log.Printf("[logout] failed to revoke jti: %v", err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
