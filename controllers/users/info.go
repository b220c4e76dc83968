package users

import (
	"errors"
	"net/http"
	"time"

	"earnpro/database"
	"earnpro/ledger"
	"earnpro/models"
	"earnpro/utils"

	"gorm.io/gorm"
)

func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	todayEarnings, err := ledger.TodayEarnings(db, uid, time.Now())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var setting models.Setting
	minWithdraw := 10.0
	if err := db.Take(&setting).Error; err == nil {
		minWithdraw = setting.MinWithdraw
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":                user.ID,
				"name":              user.Name,
				"phone":             user.Phone,
				"referral_code":     user.ReferralCode,
				"wallet_balance":    user.WalletBalance,
				"total_earned":      user.TotalEarned,
				"today_earnings":    todayEarnings,
				"referral_count":    user.ReferralCount,
				"referral_earnings": user.ReferralEarnings,
				"member_since":      user.CreatedAt.Format(time.RFC3339),
			},
			"application": map[string]interface{}{
				"min_withdraw": minWithdraw,
			},
		},
	})
}
