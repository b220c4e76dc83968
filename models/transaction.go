package models

import "time"

const (
	FlowCredit = "credit"
	FlowDebit  = "debit"
)

// Transaction types used by the ledger journal.
const (
	TxEarning     = "earning"
	TxSignupBonus = "signup_bonus"
	TxReferral    = "referral"
	TxTaskReward  = "task_reward"
	TxWithdrawal  = "withdrawal"
)

type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Flow        string    `gorm:"size:10;not null" json:"flow"`
	Type        string    `gorm:"size:30;not null" json:"type"`
	ReferenceID string    `gorm:"size:64;index" json:"reference_id"`
	Message     *string   `gorm:"size:255" json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
