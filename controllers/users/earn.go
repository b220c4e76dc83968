package users

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"earnpro/database"
	"earnpro/ledger"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListEarningOptionsHandler returns all active earning options with the
// caller's cooldown state so the client can render countdowns.
func ListEarningOptionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var options []models.EarningOption
	if err := db.Where("is_active = ?", true).Order("display_order ASC, id ASC").Find(&options).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve earning options"})
		return
	}

	now := time.Now()
	resp := make([]map[string]interface{}, 0, len(options))
	for _, opt := range options {
		remaining, err := ledger.CooldownRemaining(db, uid, opt.ActionType, opt.CooldownHours, now)
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve earning options"})
			return
		}
		resp = append(resp, map[string]interface{}{
			"id":                         opt.ID,
			"title":                      opt.Title,
			"description":                opt.Description,
			"icon_class":                 opt.IconClass,
			"reward_min":                 opt.RewardMin,
			"reward_max":                 opt.RewardMax,
			"cooldown_hours":             opt.CooldownHours,
			"action_type":                opt.ActionType,
			"action_url":                 opt.ActionURL,
			"on_cooldown":                remaining > 0,
			"cooldown_remaining_seconds": int(remaining.Seconds()),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}

// EarnHandler completes an instant earning action: re-checks the cooldown
// under the transaction, stamps it, rolls the reward and credits the wallet.
// POST /v1/users/earn/{action_type}
func EarnHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	actionType := mux.Vars(r)["action_type"]
	if !models.ValidActionType(actionType) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown action type"})
		return
	}
	if actionType == models.ActionDownloadApp {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "App downloads are rewarded through task proof submissions"})
		return
	}

	db := database.DB

	var option models.EarningOption
	if err := db.Where("action_type = ? AND is_active = ?", actionType, true).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "This earning option is not available"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var errOnCooldown = errors.New("on_cooldown")
	var cooldownLeft time.Duration
	var reward float64
	var newBalance float64

	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the user row so concurrent earn calls serialize here.
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}

		now := time.Now()
		remaining, err := ledger.CooldownRemaining(tx, uid, actionType, option.CooldownHours, now)
		if err != nil {
			return err
		}
		if remaining > 0 {
			cooldownLeft = remaining
			return errOnCooldown
		}

		// Stamp the cooldown before crediting so a concurrent request loses.
		if err := ledger.TouchCooldown(tx, uid, actionType, now); err != nil {
			return err
		}

		reward = ledger.RollReward(option.RewardMin, option.RewardMax)
		msg := option.Title
		refID := utils.GenerateReferenceID(uid)
		if err := ledger.Credit(tx, uid, reward, models.TxEarning, refID, &msg); err != nil {
			return err
		}

		balance, err := ledger.Balance(tx, uid)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		if errors.Is(err, errOnCooldown) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: fmt.Sprintf("You can do this again in %s", formatCooldown(cooldownLeft)),
				Data:    map[string]interface{}{"cooldown_remaining_seconds": int(cooldownLeft.Seconds())},
			})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: fmt.Sprintf("You earned %.2f!", reward),
		Data: map[string]interface{}{
			"reward":         reward,
			"wallet_balance": newBalance,
			"action_type":    actionType,
		},
	})
}

func formatCooldown(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
