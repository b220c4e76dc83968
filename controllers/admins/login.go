package admins

import (
	"encoding/json"
	"net/http"

	"earnpro/models"
	"earnpro/utils"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return
	}

	admin, err := models.GetAdminByUsername(req.Username)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Username or password is incorrect",
		})
		return
	}

	if !admin.ValidatePassword(req.Password) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Username or password is incorrect",
		})
		return
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Username, "admin")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to create token",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"admin": admin,
		},
	})
}
