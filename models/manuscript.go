package models

import (
	"time"

	"gorm.io/gorm"
)

type Manuscript struct {
	ID              uint             `json:"id" gorm:"primarykey"`
	AuthorID        uint             `json:"author_id" gorm:"not null"`
	Author          User             `json:"author" gorm:"foreignKey:AuthorID"`
	Title           string           `json:"title" gorm:"not null"`
	Status          ManuscriptStatus `json:"status" gorm:"default:'draft'"`
	ReviewerID      *uint            `json:"reviewer_id"`
	RejectionReason *string          `json:"rejection_reason"`
	SubmittedAt     *time.Time       `json:"submitted_at"`
	LockVersion     uint             `json:"-" gorm:"not null;default:0"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `json:"-" gorm:"index"`
}

// AfterFind normalizes whatever status string was persisted, so legacy
// alias rows never leak past the storage boundary.
func (m *Manuscript) AfterFind(tx *gorm.DB) error {
	status, err := NormalizeStatus(string(m.Status))
	if err != nil {
		return err
	}
	m.Status = status
	return nil
}
