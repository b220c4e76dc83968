package models

import "time"

const (
	PaymentMethodUPI  = "upi"
	PaymentMethodBank = "bank"
)

type WithdrawalRequest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Amount         float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod  string     `gorm:"size:20;not null" json:"payment_method"`
	PaymentDetails string     `gorm:"size:500;not null" json:"payment_details"`
	Status         string     `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
