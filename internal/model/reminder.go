package model

import "time"

// Reminder is a scheduled note a recruiter attaches to an application.
// It is stored data only, nothing delivers it.
type Reminder struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ApplicationID uint        `gorm:"not null;index" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	RemindAt time.Time `gorm:"type:timestamp;not null" json:"remind_at"`
	Message  string    `gorm:"type:text" json:"message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
