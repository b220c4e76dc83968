package users

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalCreateRequest struct {
	Amount         float64 `json:"amount"`
	PaymentMethod  string  `json:"payment_method"`
	PaymentDetails string  `json:"payment_details"`
}

// WithdrawalHandler files a withdrawal request. The amount is validated
// against the current balance but not reserved; the debit happens when an
// admin approves.
func WithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req WithdrawalCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.PaymentMethod != models.PaymentMethodUPI && req.PaymentMethod != models.PaymentMethodBank {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Payment method must be upi or bank"})
		return
	}
	if req.PaymentDetails == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Payment details are required"})
		return
	}

	db := database.DB

	var setting models.Setting
	minWithdraw := 10.0
	if err := db.Take(&setting).Error; err == nil {
		minWithdraw = setting.MinWithdraw
	}
	if req.Amount < minWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("Minimum withdrawal amount is %.2f", minWithdraw),
		})
		return
	}

	var errInsufficientBalance = errors.New("insufficient_balance")

	var wd models.WithdrawalRequest
	if err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}
		if user.WalletBalance < req.Amount {
			return errInsufficientBalance
		}

		wd = models.WithdrawalRequest{
			UserID:         uid,
			Amount:         req.Amount,
			PaymentMethod:  req.PaymentMethod,
			PaymentDetails: req.PaymentDetails,
			Status:         models.StatusPending,
			RequestedAt:    time.Now(),
		}
		return tx.Create(&wd).Error
	}); err != nil {
		if errors.Is(err, errInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data: map[string]interface{}{
			"withdrawal": map[string]interface{}{
				"id":             wd.ID,
				"amount":         wd.Amount,
				"payment_method": wd.PaymentMethod,
				"status":         wd.Status,
				"requested_at":   wd.RequestedAt.Format(time.RFC3339),
			},
		},
	})
}

// ListWithdrawalHandler returns the caller's withdrawal history, paginated.
func ListWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	db := database.DB

	var totalRows int64
	if err := db.Model(&models.WithdrawalRequest{}).Where("user_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal data"})
		return
	}

	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit

	var withdrawals []models.WithdrawalRequest
	if err := db.Where("user_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal data"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(withdrawals))
	for _, wd := range withdrawals {
		entry := map[string]interface{}{
			"id":             wd.ID,
			"amount":         wd.Amount,
			"payment_method": wd.PaymentMethod,
			"status":         wd.Status,
			"requested_at":   wd.RequestedAt.Format(time.RFC3339),
		}
		if wd.ProcessedAt != nil {
			entry["processed_at"] = wd.ProcessedAt.Format(time.RFC3339)
		}
		resp = append(resp, entry)
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

func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
