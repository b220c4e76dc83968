package admins

import (
	"net/http"
	"time"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"
)

// Dashboard returns the headline numbers for the admin panel.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var totalUsers int64
	db.Model(&models.User{}).Count(&totalUsers)

	var totalPaidOut float64
	db.Model(&models.Transaction{}).
		Where("flow = ? AND type = ?", models.FlowDebit, models.TxWithdrawal).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalPaidOut)

	var totalCredited float64
	db.Model(&models.Transaction{}).
		Where("flow = ?", models.FlowCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalCredited)

	var pendingProofs int64
	db.Model(&models.TaskSubmission{}).Where("status = ?", models.StatusPending).Count(&pendingProofs)

	var pendingWithdrawals int64
	db.Model(&models.WithdrawalRequest{}).Where("status = ?", models.StatusPending).Count(&pendingWithdrawals)

	var pendingWithdrawalAmount float64
	db.Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.StatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingWithdrawalAmount)

	since := time.Now().Add(-24 * time.Hour)
	var newUsers24h int64
	db.Model(&models.User{}).Where("created_at >= ?", since).Count(&newUsers24h)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"total_users":               totalUsers,
			"new_users_24h":             newUsers24h,
			"total_credited":            totalCredited,
			"total_paid_out":            totalPaidOut,
			"pending_proofs":            pendingProofs,
			"pending_withdrawals":       pendingWithdrawals,
			"pending_withdrawal_amount": pendingWithdrawalAmount,
		},
	})
}
