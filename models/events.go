package models

import "time"

// Domain events published after a committed transition. A notifier may
// subscribe; this service never sends notifications itself.
const (
	EventManuscriptSubmitted   = "manuscript.submitted"
	EventManuscriptInReview    = "manuscript.in_review"
	EventManuscriptApproved    = "manuscript.approved"
	EventManuscriptRejected    = "manuscript.rejected"
	EventManuscriptPublished   = "manuscript.published"
	EventManuscriptUnpublished = "manuscript.unpublished"
	EventVerificationRequested = "verification.requested"
	EventVerificationApproved  = "verification.approved"
	EventVerificationRejected  = "verification.rejected"
	EventVerificationRevoked   = "verification.revoked"
	EventAuthorSuspended       = "author.suspended"
)

type Event struct {
	Type       string    `json:"type"`
	ActorID    uint      `json:"actor_id"`
	TargetType string    `json:"target_type"`
	TargetID   uint      `json:"target_id"`
	PrevState  string    `json:"prev_state,omitempty"`
	NewState   string    `json:"new_state,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}
