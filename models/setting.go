package models

import "time"

// Setting is a single-row table holding platform-wide knobs.
type Setting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MinWithdraw    float64   `gorm:"type:decimal(15,2);not null;default:10" json:"min_withdraw"`
	SignupBonus    float64   `gorm:"type:decimal(15,2);not null;default:5" json:"signup_bonus"`
	ReferralReward float64   `gorm:"type:decimal(15,2);not null;default:8" json:"referral_reward"`
	ClosedRegister bool      `gorm:"not null;default:false" json:"closed_register"`
	Maintenance    bool      `gorm:"not null;default:false" json:"maintenance"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
