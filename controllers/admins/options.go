package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"earnpro/database"
	"earnpro/models"
	"earnpro/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type EarningOptionRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	IconClass     string  `json:"icon_class"`
	RewardMin     float64 `json:"reward_min"`
	RewardMax     float64 `json:"reward_max"`
	CooldownHours float64 `json:"cooldown_hours"`
	ActionType    string  `json:"action_type"`
	ActionURL     string  `json:"action_url"`
	DisplayOrder  int     `json:"display_order"`
	IsActive      *bool   `json:"is_active"`
}

func (req *EarningOptionRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if !models.ValidActionType(req.ActionType) {
		return "Unknown action type"
	}
	if req.RewardMin < 0 || req.RewardMax < req.RewardMin {
		return "Reward range is invalid"
	}
	if req.CooldownHours < 0 {
		return "Cooldown must not be negative"
	}
	return ""
}

// GetEarningOptions lists every option, active or not.
func GetEarningOptions(w http.ResponseWriter, r *http.Request) {
	var options []models.EarningOption
	if err := database.DB.Order("display_order ASC, id ASC").Find(&options).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve earning options"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: options})
}

func CreateEarningOption(w http.ResponseWriter, r *http.Request) {
	var req EarningOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	option := models.EarningOption{
		Title:         req.Title,
		Description:   req.Description,
		IconClass:     req.IconClass,
		RewardMin:     req.RewardMin,
		RewardMax:     req.RewardMax,
		CooldownHours: req.CooldownHours,
		ActionType:    req.ActionType,
		ActionURL:     req.ActionURL,
		DisplayOrder:  req.DisplayOrder,
		IsActive:      true,
	}
	if req.IsActive != nil {
		option.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&option).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create earning option"})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Earning option created", Data: option})
}

func UpdateEarningOption(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid option id"})
		return
	}

	var option models.EarningOption
	if err := database.DB.First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Earning option not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var req EarningOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	option.Title = req.Title
	option.Description = req.Description
	option.IconClass = req.IconClass
	option.RewardMin = req.RewardMin
	option.RewardMax = req.RewardMax
	option.CooldownHours = req.CooldownHours
	option.ActionType = req.ActionType
	option.ActionURL = req.ActionURL
	option.DisplayOrder = req.DisplayOrder
	if req.IsActive != nil {
		option.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&option).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update earning option"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Earning option updated", Data: option})
}

// DeleteEarningOption deactivates an option. History referencing it stays
// intact, so this is a soft delete.
func DeleteEarningOption(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid option id"})
		return
	}

	res := database.DB.Model(&models.EarningOption{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to deactivate earning option"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Earning option not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Earning option deactivated"})
}
