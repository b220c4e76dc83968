package models

import "time"

// RevokedToken is the DB fallback revocation store for JWT jtis when Redis is
// not configured.
type RevokedToken struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	RevokedAt time.Time `json:"revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
