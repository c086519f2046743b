package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampStatus represents the review outcome of a camp submission.
type CampStatus string

const (
	CampStatusPending  CampStatus = "pending"
	CampStatusApproved CampStatus = "approved"
	CampStatusRejected CampStatus = "rejected"
)

// Valid reports whether s is one of the three review states.
func (s CampStatus) Valid() bool {
	switch s {
	case CampStatusPending, CampStatusApproved, CampStatusRejected:
		return true
	}
	return false
}

// CampSubmission is one proposed medical camp.
// UserID is set at creation and never updated.
type CampSubmission struct {
	ID              uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;index"`
	CampName        string     `json:"camp_name" gorm:"size:255;not null"`
	Description     string     `json:"description" gorm:"type:text;not null"`
	CampDate        time.Time  `json:"camp_date" gorm:"not null"` // UTC instant
	CampTimezone    string     `json:"camp_timezone" gorm:"size:64;not null"`
	Location        string     `json:"location" gorm:"size:512;not null"`
	Specialties     string     `json:"specialties" gorm:"size:512;not null"`
	Capacity        int        `json:"capacity" gorm:"not null"`
	ContactInfo     string     `json:"contact_info" gorm:"type:text;not null"`
	AdditionalNotes string     `json:"additional_notes,omitempty" gorm:"type:text"`
	Status          CampStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt       time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Profile *Profile `json:"-" gorm:"foreignKey:UserID;references:UserID"`
}

// TableName specifies the table for CampSubmission.
func (CampSubmission) TableName() string {
	return "camp_submissions"
}

// BeforeCreate sets UUID before creating the record.
func (c *CampSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CampStatusChange records one admin decision. Every status update writes one.
type CampStatusChange struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	CampID     uuid.UUID  `json:"camp_id" gorm:"type:char(36);not null;index"`
	FromStatus CampStatus `json:"from_status" gorm:"type:varchar(20);not null"`
	ToStatus   CampStatus `json:"to_status" gorm:"type:varchar(20);not null"`
	ChangedBy  uuid.UUID  `json:"changed_by" gorm:"type:char(36);not null"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *CampStatusChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
