package users

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"earnpro/database"
	"earnpro/middleware"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ListTasksHandler returns active app tasks along with the caller's latest
// submission status for each, so the client can disable resubmission.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var tasks []models.AppTask
	if err := db.Where("is_active = ?", true).Order("id ASC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		entry := map[string]interface{}{
			"id":            task.ID,
			"title":         task.Title,
			"instructions":  task.Instructions,
			"app_link":      task.AppLink,
			"reward_amount": task.RewardAmount,
		}
		var latest models.TaskSubmission
		err := db.Where("user_id = ? AND task_id = ?", uid, task.ID).
			Order("id DESC").First(&latest).Error
		if err == nil {
			entry["submission_status"] = latest.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
			return
		}
		resp = append(resp, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}

type SubmitProofRequest struct {
	Screenshot string `json:"screenshot" validate:"required"`
}

// SubmitTaskProofHandler stores a proof screenshot for an app task.
// POST /v1/users/tasks/{id}/submit
func SubmitTaskProofHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	var req SubmitProofRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var task models.AppTask
	if err := db.Where("id = ? AND is_active = ?", taskID, true).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// One open submission per task per user.
	var pendingCount int64
	if err := db.Model(&models.TaskSubmission{}).
		Where("user_id = ? AND task_id = ? AND status = ?", uid, taskID, models.StatusPending).
		Count(&pendingCount).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if pendingCount > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You already have a pending submission for this task"})
		return
	}

	stored, err := utils.StoreScreenshot(uid, uint(taskID), req.Screenshot)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrScreenshotFormat),
			errors.Is(err, utils.ErrScreenshotType),
			errors.Is(err, utils.ErrScreenshotTooLarge):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store screenshot"})
		}
		return
	}

	submission := models.TaskSubmission{
		UserID:      uid,
		TaskID:      uint(taskID),
		Screenshot:  stored,
		Status:      models.StatusPending,
		SubmittedAt: time.Now(),
	}
	if err := db.Create(&submission).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save submission"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Proof submitted. You will be rewarded once it is approved.",
		Data: map[string]interface{}{
			"submission_id": submission.ID,
			"status":        submission.Status,
			"submitted_at":  submission.SubmittedAt.Format(time.RFC3339),
		},
	})
}

// ListSubmissionsHandler returns the caller's proof submissions, newest first.
func ListSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var submissions []models.TaskSubmission
	if err := db.Where("user_id = ?", uid).Order("id DESC").Find(&submissions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve submissions"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(submissions))
	for _, sub := range submissions {
		var task models.AppTask
		db.First(&task, sub.TaskID)
		entry := map[string]interface{}{
			"id":            sub.ID,
			"task_id":       sub.TaskID,
			"task_title":    task.Title,
			"reward_amount": task.RewardAmount,
			"status":        sub.Status,
			"submitted_at":  sub.SubmittedAt.Format(time.RFC3339),
		}
		if sub.DecidedAt != nil {
			entry["decided_at"] = sub.DecidedAt.Format(time.RFC3339)
		}
		resp = append(resp, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}
