package model

import "time"

// PasswordQueue tracks the delayed delivery of a generated attendee password.
// EncryptedPassword is sealed with the data key and cleared once sent.
type PasswordQueue struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	AttendeeID        uint           `gorm:"not null;index" json:"attendeeId"`
	Email             string         `gorm:"not null" json:"email"`
	EncryptedPassword []byte         `json:"-"`
	Status            DeliveryStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	Attempts          int            `gorm:"not null;default:0" json:"attempts"`
	LastError         string         `json:"lastError,omitempty"`
	ScheduledAt       time.Time      `gorm:"not null" json:"scheduledAt"`
	SentAt            *time.Time     `json:"sentAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (PasswordQueue) TableName() string {
	return "password_queue"
}

// AAD is the additional data binding the sealed password to its attendee
func (p *PasswordQueue) AAD() []byte {
	return PasswordAAD(p.AttendeeID)
}

func PasswordAAD(attendeeID uint) []byte {
	return []byte("password_queue:" + uitoa(attendeeID))
}
