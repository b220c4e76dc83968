package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"
)

// AdminAuthMiddleware verifies that the request carries a valid admin token
// and that the admin account still exists and is active.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: No token provided",
			})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		_, claims, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Invalid token",
			})
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != "admin" {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Forbidden: Admin access required",
			})
			return
		}

		var adminID int64
		if rawID, ok := claims["id"]; ok {
			switch v := rawID.(type) {
			case float64:
				adminID = int64(v)
			case int:
				adminID = int64(v)
			case int64:
				adminID = v
			case string:
				var n int64
				_, _ = fmt.Sscanf(v, "%d", &n)
				adminID = n
			}
		}

		var admin models.Admin
		if err := database.DB.First(&admin, adminID).Error; err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Message: "Unauthorized: Admin not found",
			})
			return
		}

		if !admin.IsActive {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Forbidden",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
