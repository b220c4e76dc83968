package admins

import (
	"encoding/json"
	"net/http"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"
)

type SettingRequest struct {
	MinWithdraw    float64 `json:"min_withdraw"`
	SignupBonus    float64 `json:"signup_bonus"`
	ReferralReward float64 `json:"referral_reward"`
	ClosedRegister bool    `json:"closed_register"`
	Maintenance    bool    `json:"maintenance"`
}

// GET /v1/admin/settings
func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Server error",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    setting,
	})
}

// PUT /v1/admin/settings
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if req.MinWithdraw < 0 || req.SignupBonus < 0 || req.ReferralReward < 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Values must not be negative",
		})
		return
	}

	db := database.DB

	var setting models.Setting
	if err := db.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Server error",
		})
		return
	}

	setting.MinWithdraw = req.MinWithdraw
	setting.SignupBonus = req.SignupBonus
	setting.ReferralReward = req.ReferralReward
	setting.ClosedRegister = req.ClosedRegister
	setting.Maintenance = req.Maintenance

	if err := db.Save(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Server error",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Settings updated",
		Data:    setting,
	})
}
