package models

import "time"

type AppTask struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Instructions string    `gorm:"size:1000;not null" json:"instructions"`
	AppLink      string    `gorm:"size:500;not null" json:"app_link"`
	RewardAmount float64   `gorm:"type:decimal(15,2);not null" json:"reward_amount"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (AppTask) TableName() string {
	return "app_tasks"
}
