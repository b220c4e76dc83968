package admins

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// GetUsers lists registered users with optional search on name or phone.
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	countQuery := db.Model(&models.User{})
	if search != "" {
		countQuery = countQuery.Where("name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var totalRows int64
	if err := countQuery.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit

	var users []models.User
	query := db.Model(&models.User{})
	if search != "" {
		query = query.Where("name LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve users"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		resp = append(resp, map[string]interface{}{
			"id":                u.ID,
			"name":              u.Name,
			"phone":             u.Phone,
			"referral_code":     u.ReferralCode,
			"wallet_balance":    u.WalletBalance,
			"total_earned":      u.TotalEarned,
			"referral_count":    u.ReferralCount,
			"referral_earnings": u.ReferralEarnings,
			"created_at":        u.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": resp,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GetUserDetail returns one user with their recent activity.
func GetUserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var recentTxs []models.Transaction
	db.Where("user_id = ?", user.ID).Order("id DESC").Limit(20).Find(&recentTxs)

	var pendingWithdrawals int64
	db.Model(&models.WithdrawalRequest{}).
		Where("user_id = ? AND status = ?", user.ID, models.StatusPending).
		Count(&pendingWithdrawals)

	var pendingProofs int64
	db.Model(&models.TaskSubmission{}).
		Where("user_id = ? AND status = ?", user.ID, models.StatusPending).
		Count(&pendingProofs)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user":                user,
			"recent_transactions": recentTxs,
			"pending_withdrawals": pendingWithdrawals,
			"pending_proofs":      pendingProofs,
		},
	})
}

// DeleteUser removes a user account and its dependent records.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Cooldown{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.WithdrawalRequest{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&models.Transaction{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete user"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User deleted"})
}
