package models

import "time"

// Submission / withdrawal statuses. Transitions are one-way: pending -> approved
// or pending -> rejected, never re-opened.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type TaskSubmission struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	TaskID      uint       `gorm:"not null;index" json:"task_id"`
	Screenshot  string     `gorm:"type:text;not null" json:"screenshot"`
	Status      string     `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

func (TaskSubmission) TableName() string {
	return "task_submissions"
}
