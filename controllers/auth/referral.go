package auth

import (
	"errors"
	"net/http"
	"strings"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ResolveReferralHandler tells a prospective signup whose code they hold.
// Only the referrer's display name leaves the server.
func ResolveReferralHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"]))
	if code == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Referral code is required"})
		return
	}

	var owner models.User
	err := database.DB.Select("id, name").Where("referral_code = ?", code).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Referral code not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Referral code is valid",
		Data:    map[string]interface{}{"referrer_name": owner.Name},
	})
}
