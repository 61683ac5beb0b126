package model

import (
	"strings"
	"time"
)

type Attendee struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	ConferenceID        uint           `gorm:"not null;uniqueIndex:idx_attendees_conference_email" json:"conferenceId"`
	Email               string         `gorm:"not null;uniqueIndex:idx_attendees_conference_email" json:"email"`
	Name                string         `gorm:"not null" json:"name"`
	PasswordHash        string         `gorm:"not null" json:"-"`
	Status              AttendeeStatus `gorm:"type:varchar(32);not null" json:"status"`
	FailedLoginAttempts int            `gorm:"not null;default:0" json:"failedLoginAttempts"`
	LockedUntil         *time.Time     `json:"lockedUntil,omitempty"`
	PasswordChangedAt   *time.Time     `json:"passwordChangedAt,omitempty"`
	LastLoginAt         *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (Attendee) TableName() string {
	return "attendees"
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequiresPasswordChange reports whether the attendee still uses the generated password
func (a *Attendee) RequiresPasswordChange() bool {
	return a.PasswordChangedAt == nil
}
