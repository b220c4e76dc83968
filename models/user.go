package models

import "time"

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Phone            string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Password         string    `gorm:"size:255;not null" json:"-"`
	WalletBalance    float64   `gorm:"type:decimal(15,2);default:0" json:"wallet_balance"`
	TotalEarned      float64   `gorm:"type:decimal(15,2);default:0" json:"total_earned"`
	ReferralCode     string    `gorm:"size:20;uniqueIndex;not null" json:"referral_code"`
	ReferredBy       *string   `gorm:"size:20" json:"referred_by"`
	ReferralCount    int64     `gorm:"default:0" json:"referral_count"`
	ReferralEarnings float64   `gorm:"type:decimal(15,2);default:0" json:"referral_earnings"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
