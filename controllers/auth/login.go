package auth

import (
	"net/http"
	"time"

	"earnpro/database"
	"earnpro/middleware"
	"earnpro/models"
	"earnpro/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,phone10"`
	Password string `json:"password" validate:"required,pwdmin"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var user models.User
	if err := db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Phone number or password is incorrect"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if locked, retry := middleware.IsAccountLocked(user.ID); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
			Success: false,
			Message: "Too many login attempts. Try again later.",
			Data:    map[string]interface{}{"retry_after_seconds": int(retry.Seconds())},
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		middleware.RecordFailedLogin(user.ID)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Phone number or password is incorrect"})
		return
	}

	middleware.ResetFailedLogin(user.ID)

	token, err := utils.GenerateJWT(int64(user.ID), user.Phone, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"token_expire": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
			"user":         userPayload(&user),
		},
	})
}
