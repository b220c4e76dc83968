package users

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return err
	}
	return nil
}

// ListTransactionsHandler returns the caller's wallet journal, newest first.
func ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit := parsePagination(r)
	db := database.DB

	var totalRows int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", uid).Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit

	var txs []models.Transaction
	if err := db.Where("user_id = ?", uid).Order("id DESC").Limit(limit).Offset(offset).Find(&txs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve transactions"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(txs))
	for _, tx := range txs {
		entry := map[string]interface{}{
			"id":           tx.ID,
			"amount":       tx.Amount,
			"flow":         tx.Flow,
			"type":         tx.Type,
			"reference_id": tx.ReferenceID,
			"created_at":   tx.CreatedAt.Format(time.RFC3339),
		}
		if tx.Message != nil {
			entry["message"] = *tx.Message
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
