package model

import "time"

type Survey struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ConferenceID uint      `gorm:"not null;index" json:"conferenceId"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	IsActive     bool      `gorm:"not null;default:false" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Survey) TableName() string {
	return "surveys"
}
