package models

import "time"

// Action types an earning option can carry. download_app is resolved through the
// app-task/proof workflow; everything else pays out instantly.
const (
	ActionSpin        = "spin"
	ActionWatchAd     = "watch_ad"
	ActionDownloadApp = "download_app"
	ActionQuiz        = "quiz"
	ActionSurvey      = "survey"
	ActionSocial      = "social"
	ActionCustom      = "custom"
)

var ActionTypes = []string{
	ActionSpin, ActionWatchAd, ActionDownloadApp,
	ActionQuiz, ActionSurvey, ActionSocial, ActionCustom,
}

func ValidActionType(t string) bool {
	for _, a := range ActionTypes {
		if a == t {
			return true
		}
	}
	return false
}

type EarningOption struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:100;not null" json:"title"`
	Description   string    `gorm:"size:500;not null" json:"description"`
	IconClass     string    `gorm:"size:100" json:"icon_class"`
	RewardMin     float64   `gorm:"type:decimal(15,2);not null" json:"reward_min"`
	RewardMax     float64   `gorm:"type:decimal(15,2);not null" json:"reward_max"`
	CooldownHours float64   `gorm:"not null;default:0" json:"cooldown_hours"`
	ActionType    string    `gorm:"size:30;index;not null" json:"action_type"`
	ActionURL     string    `gorm:"size:255" json:"action_url,omitempty"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	DisplayOrder  int       `gorm:"default:0" json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

func (EarningOption) TableName() string {
	return "earning_options"
}
