package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TargetManuscript = "manuscript"
	TargetAuthor     = "author"
)

// AuditEntry is append-only: written once in the same transaction as the
// state change it records, never updated or deleted.
type AuditEntry struct {
	ID         string    `json:"id" gorm:"primarykey;type:uuid"`
	ActorID    uint      `json:"actor_id" gorm:"not null"`
	ActorRole  UserRole  `json:"actor_role" gorm:"not null"`
	Action     string    `json:"action" gorm:"not null"`
	TargetType string    `json:"target_type" gorm:"not null;index:idx_audit_target"`
	TargetID   string    `json:"target_id" gorm:"not null;index:idx_audit_target"`
	PrevState  string    `json:"prev_state"`
	NewState   string    `json:"new_state"`
	Reason     *string   `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func NewAuditEntry(actor Actor, action, targetType string, targetID uint, prev, next, reason string) *AuditEntry {
	entry := &AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		TargetType: targetType,
		TargetID:   strconv.FormatUint(uint64(targetID), 10),
		PrevState:  prev,
		NewState:   next,
	}
	if reason != "" {
		entry.Reason = &reason
	}
	return entry
}
