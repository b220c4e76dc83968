package admins

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"earnpro/database"
	"earnpro/ledger"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type WithdrawalResponse struct {
	ID             uint    `json:"id"`
	UserID         uint    `json:"user_id"`
	UserName       string  `json:"user_name"`
	Phone          string  `json:"phone"`
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentDetails string  `json:"payment_details"`
	Status         string  `json:"status"`
	RequestedAt    string  `json:"requested_at"`
	ProcessedAt    string  `json:"processed_at,omitempty"`
}

func GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.WithdrawalRequest{}).
		Joins("JOIN users ON withdrawal_requests.user_id = users.id")

	if status != "" {
		query = query.Where("withdrawal_requests.status = ?", status)
	}
	if userID != "" {
		query = query.Where("withdrawal_requests.user_id = ?", userID)
	}

	type withdrawalWithDetails struct {
		models.WithdrawalRequest
		UserName string
		Phone    string
	}

	var withdrawals []withdrawalWithDetails
	query.Select("withdrawal_requests.*, users.name as user_name, users.phone as phone").
		Offset(offset).
		Limit(limit).
		Order("withdrawal_requests.requested_at DESC").
		Find(&withdrawals)

	response := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		entry := WithdrawalResponse{
			ID:             wd.ID,
			UserID:         wd.UserID,
			UserName:       wd.UserName,
			Phone:          wd.Phone,
			Amount:         wd.Amount,
			PaymentMethod:  wd.PaymentMethod,
			PaymentDetails: wd.PaymentDetails,
			Status:         wd.Status,
			RequestedAt:    wd.RequestedAt.Format(time.RFC3339),
		}
		if wd.ProcessedAt != nil {
			entry.ProcessedAt = wd.ProcessedAt.Format(time.RFC3339)
		}
		response = append(response, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

// ApproveWithdrawal flips a pending request to approved and debits the
// wallet in one transaction. The debit clamps at zero when the balance has
// shrunk since the request was filed.
func ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	db := database.DB

	var withdrawal models.WithdrawalRequest
	if err := db.First(&withdrawal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var errNotPending = errors.New("not_pending")
	now := time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]interface{}{"status": models.StatusApproved, "processed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotPending
		}
		msg := fmt.Sprintf("Withdrawal via %s", withdrawal.PaymentMethod)
		refID := fmt.Sprintf("wd-%d", withdrawal.ID)
		return ledger.Debit(tx, withdrawal.UserID, withdrawal.Amount, models.TxWithdrawal, refID, &msg)
	})
	if err != nil {
		if errors.Is(err, errNotPending) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending withdrawals can be approved"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to approve withdrawal"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal approved",
		Data: map[string]interface{}{
			"withdrawal_id": withdrawal.ID,
			"user_id":       withdrawal.UserID,
			"amount":        withdrawal.Amount,
		},
	})
}

// RejectWithdrawal flips a pending request to rejected. The balance is left
// untouched since nothing was reserved.
func RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal id"})
		return
	}

	res := database.DB.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{"status": models.StatusRejected, "processed_at": time.Now()})
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to reject withdrawal"})
		return
	}
	if res.RowsAffected == 0 {
		var count int64
		database.DB.Model(&models.WithdrawalRequest{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
			return
		}
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending withdrawals can be rejected"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal rejected"})
}
