package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds display metadata for a user, joined when listing submissions.
type Profile struct {
	UserID       uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255"`
	Organization string    `json:"organization" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
