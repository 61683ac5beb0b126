package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLCodeLength is the length of the code printed in conference QR codes
const URLCodeLength = 8

// no 0/O, 1/I
const urlCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type Conference struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AdminID     uint       `gorm:"not null;index" json:"adminId"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	URLCode     string     `gorm:"column:url_code;uniqueIndex;size:16;not null" json:"urlCode"`
	IsActive    bool       `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Surveys []Survey `gorm:"constraint:OnDelete:CASCADE" json:"surveys,omitempty"`
}

func (Conference) TableName() string {
	return "conferences"
}

// NormalizeURLCode upper-cases and trims a code typed or scanned by an attendee
func NormalizeURLCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewURLCode returns a random conference code built from the first 40 bits
// of a random UUID, five bits per character.
func NewURLCode() string {
	u := uuid.New()
	var bits uint64
	for _, b := range u[:5] {
		bits = bits<<8 | uint64(b)
	}
	out := make([]byte, URLCodeLength)
	for i := URLCodeLength - 1; i >= 0; i-- {
		out[i] = urlCodeAlphabet[bits&31]
		bits >>= 5
	}
	return string(out)
}
