package models

import (
	"time"

	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationPending    VerificationStatus = "pending"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationSuspended  VerificationStatus = "suspended"
)

type VerificationAction string

const (
	ActionRequestVerification VerificationAction = "request_verification"
	ActionApproveVerification VerificationAction = "approve_verification"
	ActionGrantVerification   VerificationAction = "grant_verification"
	ActionRejectVerification  VerificationAction = "reject_verification"
	ActionRevokeVerification  VerificationAction = "revoke_verification"
	ActionSuspendAuthor       VerificationAction = "suspend_author"
)

// AuthorProfile holds the verification flags for one author. The two
// booleans are only ever written together through the verification
// executor; Status is derived, never stored.
type AuthorProfile struct {
	ID                      uint               `json:"id" gorm:"primarykey"`
	AuthorID                uint               `json:"author_id" gorm:"uniqueIndex;not null"`
	Author                  User               `json:"author" gorm:"foreignKey:AuthorID"`
	IsVerified              bool               `json:"is_verified" gorm:"not null;default:false"`
	VerificationRequested   bool               `json:"verification_requested" gorm:"not null;default:false"`
	VerificationRequestedAt *time.Time         `json:"verification_requested_at"`
	Suspended               bool               `json:"suspended" gorm:"not null;default:false"`
	LastActionReason        *string            `json:"last_action_reason"`
	LastActionAt            *time.Time         `json:"last_action_at"`
	LastActorID             *uint              `json:"last_actor_id"`
	Status                  VerificationStatus `json:"status" gorm:"-"`
	BookCount               int64              `json:"book_count" gorm:"->;-:migration"`
	LockVersion             uint               `json:"-" gorm:"not null;default:0"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// DisplayStatus is the single place the flag pair is interpreted.
func (p *AuthorProfile) DisplayStatus() VerificationStatus {
	switch {
	case p.Suspended:
		return VerificationSuspended
	case p.IsVerified:
		return VerificationVerified
	case p.VerificationRequested:
		return VerificationPending
	default:
		return VerificationUnverified
	}
}

func (p *AuthorProfile) AfterFind(tx *gorm.DB) error {
	p.Status = p.DisplayStatus()
	return nil
}
