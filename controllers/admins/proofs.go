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

type ProofResponse struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	UserName     string  `json:"user_name"`
	Phone        string  `json:"phone"`
	TaskID       uint    `json:"task_id"`
	TaskTitle    string  `json:"task_title"`
	RewardAmount float64 `json:"reward_amount"`
	Screenshot   string  `json:"screenshot"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submitted_at"`
	DecidedAt    string  `json:"decided_at,omitempty"`
}

// GetProofs lists task submissions, filterable by status and user.
func GetProofs(w http.ResponseWriter, r *http.Request) {
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
	query := db.Model(&models.TaskSubmission{}).
		Joins("JOIN users ON task_submissions.user_id = users.id").
		Joins("JOIN app_tasks ON task_submissions.task_id = app_tasks.id")

	if status != "" {
		query = query.Where("task_submissions.status = ?", status)
	}
	if userID != "" {
		query = query.Where("task_submissions.user_id = ?", userID)
	}

	type proofWithDetails struct {
		models.TaskSubmission
		UserName     string
		Phone        string
		TaskTitle    string
		RewardAmount float64
	}

	var proofs []proofWithDetails
	query.Select("task_submissions.*, users.name as user_name, users.phone as phone, app_tasks.title as task_title, app_tasks.reward_amount").
		Offset(offset).
		Limit(limit).
		Order("task_submissions.submitted_at DESC").
		Find(&proofs)

	response := make([]ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		entry := ProofResponse{
			ID:           p.ID,
			UserID:       p.UserID,
			UserName:     p.UserName,
			Phone:        p.Phone,
			TaskID:       p.TaskID,
			TaskTitle:    p.TaskTitle,
			RewardAmount: p.RewardAmount,
			Screenshot:   p.Screenshot,
			Status:       p.Status,
			SubmittedAt:  p.SubmittedAt.Format(time.RFC3339),
		}
		if p.DecidedAt != nil {
			entry.DecidedAt = p.DecidedAt.Format(time.RFC3339)
		}
		response = append(response, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

// ApproveProof flips a pending submission to approved and credits the task
// reward, both in one transaction. The guarded status update makes a repeat
// approval a no-op instead of a double payout.
func ApproveProof(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id"})
		return
	}

	db := database.DB

	var submission models.TaskSubmission
	if err := db.First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Submission not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var task models.AppTask
	if err := db.First(&task, submission.TaskID).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Task for this submission no longer exists"})
		return
	}

	var errNotPending = errors.New("not_pending")
	now := time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TaskSubmission{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Updates(map[string]interface{}{"status": models.StatusApproved, "decided_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotPending
		}
		msg := fmt.Sprintf("Task reward: %s", task.Title)
		refID := fmt.Sprintf("task-%d-sub-%d", task.ID, submission.ID)
		return ledger.Credit(tx, submission.UserID, task.RewardAmount, models.TxTaskReward, refID, &msg)
	})
	if err != nil {
		if errors.Is(err, errNotPending) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending submissions can be approved"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to approve submission"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Submission approved and reward credited",
		Data: map[string]interface{}{
			"submission_id": submission.ID,
			"user_id":       submission.UserID,
			"reward":        task.RewardAmount,
		},
	})
}

// RejectProof flips a pending submission to rejected. No balance change.
func RejectProof(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid submission id"})
		return
	}

	res := database.DB.Model(&models.TaskSubmission{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{"status": models.StatusRejected, "decided_at": time.Now()})
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to reject submission"})
		return
	}
	if res.RowsAffected == 0 {
		var count int64
		database.DB.Model(&models.TaskSubmission{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Submission not found"})
			return
		}
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending submissions can be rejected"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Submission rejected"})
}
