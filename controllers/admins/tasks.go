package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AppTaskRequest struct {
	Title        string  `json:"title"`
	Instructions string  `json:"instructions"`
	AppLink      string  `json:"app_link"`
	RewardAmount float64 `json:"reward_amount"`
	IsActive     *bool   `json:"is_active"`
}

func (req *AppTaskRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if !strings.HasPrefix(req.AppLink, "http://") && !strings.HasPrefix(req.AppLink, "https://") {
		return "App link must be an http(s) URL"
	}
	if req.RewardAmount <= 0 {
		return "Reward amount must be positive"
	}
	return ""
}

// GetAppTasks lists every app task, with pending submission counts.
func GetAppTasks(w http.ResponseWriter, r *http.Request) {
	db := database.DB
	var tasks []models.AppTask
	if err := db.Order("id ASC").Find(&tasks).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve tasks"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		var pending int64
		db.Model(&models.TaskSubmission{}).
			Where("task_id = ? AND status = ?", task.ID, models.StatusPending).
			Count(&pending)
		resp = append(resp, map[string]interface{}{
			"id":                  task.ID,
			"title":               task.Title,
			"instructions":        task.Instructions,
			"app_link":            task.AppLink,
			"reward_amount":       task.RewardAmount,
			"is_active":           task.IsActive,
			"pending_submissions": pending,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: resp})
}

func CreateAppTask(w http.ResponseWriter, r *http.Request) {
	var req AppTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	task := models.AppTask{
		Title:        req.Title,
		Instructions: req.Instructions,
		AppLink:      req.AppLink,
		RewardAmount: req.RewardAmount,
		IsActive:     true,
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&task).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create task"})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

func UpdateAppTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	var task models.AppTask
	if err := database.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var req AppTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	task.Title = req.Title
	task.Instructions = req.Instructions
	task.AppLink = req.AppLink
	task.RewardAmount = req.RewardAmount
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&task).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update task"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DeleteAppTask removes a task. Pending submissions for it are rejected so
// users are not left waiting on a task that no longer exists.
func DeleteAppTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.AppTask{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.TaskSubmission{}).
			Where("task_id = ? AND status = ?", id, models.StatusPending).
			Update("status", models.StatusRejected).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete task"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}
