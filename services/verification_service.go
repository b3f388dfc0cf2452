package services

import (
	"strings"
	"time"

	"inkpress/models"
	"inkpress/repositories"

	"github.com/rs/zerolog"
)

// VerificationService is the only writer of is_verified and
// verification_requested; the pair is never set independently anywhere
// else.
type VerificationService interface {
	Request(actor models.Actor) (*models.AuthorProfile, error)
	Approve(actor models.Actor, authorID uint) (*models.AuthorProfile, error)
	Grant(actor models.Actor, authorID uint) (*models.AuthorProfile, error)
	Reject(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error)
	Revoke(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error)
	Suspend(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error)
	GetProfile(authorID uint) (*models.AuthorProfile, error)
}

type verificationService struct {
	profiles repositories.AuthorProfileRepository
	events   *EventBus
	log      zerolog.Logger
}

func NewVerificationService(profiles repositories.AuthorProfileRepository, events *EventBus, log zerolog.Logger) VerificationService {
	return &verificationService{
		profiles: profiles,
		events:   events,
		log:      log.With().Str("component", "verification").Logger(),
	}
}

func (s *verificationService) GetProfile(authorID uint) (*models.AuthorProfile, error) {
	return s.profiles.GetByAuthorID(authorID)
}

func (s *verificationService) Request(actor models.Actor) (*models.AuthorProfile, error) {
	if actor.Role != models.RoleAuthor {
		return nil, models.ErrorUnauthorized{Message: "only authors may request verification"}
	}
	return s.apply(actor, actor.ID, models.ActionRequestVerification, "",
		models.VerificationUnverified, models.EventVerificationRequested,
		func(p *models.AuthorProfile, now time.Time) {
			p.VerificationRequested = true
			p.VerificationRequestedAt = &now
		})
}

func (s *verificationService) Approve(actor models.Actor, authorID uint) (*models.AuthorProfile, error) {
	if !canModerateVerification(actor) {
		return nil, models.ErrorUnauthorized{Message: "only admins may approve verification"}
	}
	return s.apply(actor, authorID, models.ActionApproveVerification, "",
		models.VerificationPending, models.EventVerificationApproved,
		func(p *models.AuthorProfile, now time.Time) {
			p.IsVerified = true
			p.VerificationRequested = false
		})
}

// Grant verifies an author directly, bypassing the request step.
func (s *verificationService) Grant(actor models.Actor, authorID uint) (*models.AuthorProfile, error) {
	if !canModerateVerification(actor) {
		return nil, models.ErrorUnauthorized{Message: "only admins may grant verification"}
	}
	return s.apply(actor, authorID, models.ActionGrantVerification, "",
		models.VerificationUnverified, models.EventVerificationApproved,
		func(p *models.AuthorProfile, now time.Time) {
			p.IsVerified = true
			p.VerificationRequested = false
		})
}

func (s *verificationService) Reject(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error) {
	if !canModerateVerification(actor) {
		return nil, models.ErrorUnauthorized{Message: "only admins may reject verification"}
	}
	return s.apply(actor, authorID, models.ActionRejectVerification, reason,
		models.VerificationPending, models.EventVerificationRejected,
		func(p *models.AuthorProfile, now time.Time) {
			p.VerificationRequested = false
		})
}

func (s *verificationService) Revoke(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error) {
	if !canModerateVerification(actor) {
		return nil, models.ErrorUnauthorized{Message: "only admins may revoke verification"}
	}
	return s.apply(actor, authorID, models.ActionRevokeVerification, reason,
		models.VerificationVerified, models.EventVerificationRevoked,
		func(p *models.AuthorProfile, now time.Time) {
			p.IsVerified = false
			p.VerificationRequested = false
		})
}

// Suspend is punitive and distinct from Revoke: the guard blocks every
// manuscript transition for a suspended author. There is no un-suspend
// transition in this release.
func (s *verificationService) Suspend(actor models.Actor, authorID uint, reason string) (*models.AuthorProfile, error) {
	if !canModerateVerification(actor) {
		return nil, models.ErrorUnauthorized{Message: "only admins may suspend authors"}
	}
	return s.apply(actor, authorID, models.ActionSuspendAuthor, reason,
		models.VerificationVerified, models.EventAuthorSuspended,
		func(p *models.AuthorProfile, now time.Time) {
			p.Suspended = true
		})
}

var reasonRequired = map[models.VerificationAction]bool{
	models.ActionRejectVerification: true,
	models.ActionRevokeVerification: true,
	models.ActionSuspendAuthor:      true,
}

func (s *verificationService) apply(
	actor models.Actor,
	authorID uint,
	action models.VerificationAction,
	reason string,
	expectedStatus models.VerificationStatus,
	eventType string,
	mutate func(*models.AuthorProfile, time.Time),
) (*models.AuthorProfile, error) {
	reason = strings.TrimSpace(reason)
	if reasonRequired[action] && reason == "" {
		return nil, models.ErrorValidation{Field: "reason", Message: "reason is required for " + string(action)}
	}

	profile, err := s.profiles.GetByAuthorID(authorID)
	if err != nil {
		return nil, err
	}

	prev := profile.DisplayStatus()
	if prev != expectedStatus {
		return nil, models.ErrorInvalidTransition{Requested: string(action), Current: string(prev)}
	}

	expected := profile.LockVersion
	now := time.Now()
	mutate(profile, now)
	profile.LastActionAt = &now
	profile.LastActorID = &actor.ID
	if reason != "" {
		r := reason
		profile.LastActionReason = &r
	} else {
		profile.LastActionReason = nil
	}
	profile.Status = profile.DisplayStatus()

	entry := models.NewAuditEntry(actor, string(action), models.TargetAuthor,
		authorID, string(prev), string(profile.Status), reason)
	if err := s.profiles.ApplyUpdate(profile, expected, entry); err != nil {
		return nil, err
	}

	s.events.Publish(models.Event{
		Type:       eventType,
		ActorID:    actor.ID,
		TargetType: models.TargetAuthor,
		TargetID:   authorID,
		PrevState:  string(prev),
		NewState:   string(profile.Status),
		Reason:     reason,
		At:         now,
	})
	s.log.Info().
		Uint("author_id", authorID).
		Str("action", string(action)).
		Str("from", string(prev)).
		Str("to", string(profile.Status)).
		Uint("actor_id", actor.ID).
		Msg("verification state changed")

	return profile, nil
}
