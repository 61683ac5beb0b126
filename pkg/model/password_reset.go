package model

import "time"

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey"`
	AdminID   uint      `gorm:"not null;index"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// Usable reports whether the reset can still be redeemed at now
func (p *PasswordReset) Usable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
