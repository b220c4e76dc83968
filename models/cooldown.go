package models

import "time"

// Cooldown records the last completion time of a cooldown-gated action per user.
// The (user_id, action_type) pair is unique; completing an action upserts the row.
type Cooldown struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_cooldown_user_action" json:"user_id"`
	ActionType   string    `gorm:"size:30;not null;uniqueIndex:idx_cooldown_user_action" json:"action_type"`
	LastActionAt time.Time `gorm:"not null" json:"last_action_at"`
}

func (Cooldown) TableName() string {
	return "cooldowns"
}
