package services

import (
	"errors"
	"strings"
	"time"

	"inkpress/models"
	"inkpress/repositories"

	"github.com/rs/zerolog"
)

// WorkflowService is the only writer of manuscript status. Every
// transition runs as one unit: guard, source-state precondition,
// compare-and-set write plus audit entry in a single transaction, then
// cache invalidation and event publish.
type WorkflowService interface {
	Create(actor models.Actor, req models.CreateManuscriptRequest) (*models.Manuscript, error)
	Get(actor models.Actor, id uint) (*models.Manuscript, error)
	Submit(actor models.Actor, id uint) (*models.Manuscript, error)
	Resubmit(actor models.Actor, id uint) (*models.Manuscript, error)
	StartReview(actor models.Actor, id uint) (*models.Manuscript, error)
	Approve(actor models.Actor, id uint) (*models.Manuscript, error)
	Reject(actor models.Actor, id uint, reason string) (*models.Manuscript, error)
	Publish(actor models.Actor, id uint) (*models.Manuscript, error)
	Unpublish(actor models.Actor, id uint, reason string) (*models.Manuscript, error)
}

type workflowService struct {
	manuscripts repositories.ManuscriptRepository
	profiles    repositories.AuthorProfileRepository
	cache       *ManuscriptCache
	events      *EventBus
	log         zerolog.Logger
}

func NewWorkflowService(
	manuscripts repositories.ManuscriptRepository,
	profiles repositories.AuthorProfileRepository,
	cache *ManuscriptCache,
	events *EventBus,
	log zerolog.Logger,
) WorkflowService {
	return &workflowService{
		manuscripts: manuscripts,
		profiles:    profiles,
		cache:       cache,
		events:      events,
		log:         log.With().Str("component", "workflow").Logger(),
	}
}

func (s *workflowService) Create(actor models.Actor, req models.CreateManuscriptRequest) (*models.Manuscript, error) {
	if actor.Role != models.RoleAuthor {
		return nil, models.ErrorUnauthorized{Message: "only authors may create manuscripts"}
	}
	suspended, err := s.authorSuspended(actor.ID)
	if err != nil {
		return nil, err
	}
	if suspended {
		return nil, models.ErrorUnauthorized{Message: "author is suspended"}
	}

	manuscript := &models.Manuscript{
		AuthorID: actor.ID,
		Title:    strings.TrimSpace(req.Title),
		Status:   models.StatusDraft,
	}
	if manuscript.Title == "" {
		return nil, models.ErrorValidation{Field: "title", Message: "title is required"}
	}

	entry := models.NewAuditEntry(actor, "create", models.TargetManuscript, 0, "", string(models.StatusDraft), "")
	if err := s.manuscripts.Create(manuscript, entry); err != nil {
		return nil, err
	}

	s.log.Info().Uint("manuscript_id", manuscript.ID).Uint("author_id", actor.ID).Msg("manuscript created")
	return manuscript, nil
}

// Get serves reads through the cache. Unpublished manuscripts are only
// visible to their author and admins.
func (s *workflowService) Get(actor models.Actor, id uint) (*models.Manuscript, error) {
	manuscript, ok := s.cache.Get(id)
	if !ok {
		loaded, err := s.manuscripts.GetByID(id)
		if err != nil {
			return nil, err
		}
		s.cache.Put(loaded)
		manuscript = loaded
	}

	if manuscript.Status != models.StatusPublished &&
		actor.Role != models.RoleAdmin && actor.ID != manuscript.AuthorID {
		return nil, models.ErrorUnauthorized{Message: "manuscript is not published"}
	}
	return manuscript, nil
}

func (s *workflowService) Submit(actor models.Actor, id uint) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionSubmit, "")
}

func (s *workflowService) Resubmit(actor models.Actor, id uint) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionResubmit, "")
}

func (s *workflowService) StartReview(actor models.Actor, id uint) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionStartReview, "")
}

func (s *workflowService) Approve(actor models.Actor, id uint) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionApprove, "")
}

func (s *workflowService) Reject(actor models.Actor, id uint, reason string) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionReject, reason)
}

func (s *workflowService) Publish(actor models.Actor, id uint) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionPublish, "")
}

func (s *workflowService) Unpublish(actor models.Actor, id uint, reason string) (*models.Manuscript, error) {
	return s.apply(actor, id, models.TransitionUnpublish, reason)
}

var transitionEvents = map[models.Transition]string{
	models.TransitionSubmit:      models.EventManuscriptSubmitted,
	models.TransitionResubmit:    models.EventManuscriptSubmitted,
	models.TransitionStartReview: models.EventManuscriptInReview,
	models.TransitionApprove:     models.EventManuscriptApproved,
	models.TransitionReject:      models.EventManuscriptRejected,
	models.TransitionPublish:     models.EventManuscriptPublished,
	models.TransitionUnpublish:   models.EventManuscriptUnpublished,
}

func (s *workflowService) apply(actor models.Actor, id uint, transition models.Transition, reason string) (*models.Manuscript, error) {
	reason = strings.TrimSpace(reason)
	if transition.RequiresReason() && reason == "" {
		return nil, models.ErrorValidation{Field: "reason", Message: "reason is required for " + string(transition)}
	}

	manuscript, err := s.manuscripts.GetByID(id)
	if err != nil {
		return nil, err
	}

	suspended, err := s.authorSuspended(manuscript.AuthorID)
	if err != nil {
		return nil, err
	}
	if err := authorizeTransition(actor, manuscript, transition, suspended); err != nil {
		return nil, err
	}
	if manuscript.Status != transition.Source() {
		return nil, models.ErrorInvalidTransition{
			Requested: string(transition),
			Current:   string(manuscript.Status),
		}
	}

	expected := manuscript.LockVersion
	prev := manuscript.Status
	now := time.Now()

	manuscript.Status = transition.Target()
	manuscript.RejectionReason = nil
	switch transition {
	case models.TransitionSubmit, models.TransitionResubmit:
		manuscript.SubmittedAt = &now
	case models.TransitionStartReview:
		manuscript.ReviewerID = &actor.ID
	case models.TransitionReject:
		r := reason
		manuscript.RejectionReason = &r
	}

	entry := models.NewAuditEntry(actor, string(transition), models.TargetManuscript,
		manuscript.ID, string(prev), string(manuscript.Status), reason)
	if err := s.manuscripts.ApplyTransition(manuscript, expected, entry); err != nil {
		return nil, err
	}

	s.cache.Invalidate(manuscript.ID)
	s.events.Publish(models.Event{
		Type:       transitionEvents[transition],
		ActorID:    actor.ID,
		TargetType: models.TargetManuscript,
		TargetID:   manuscript.ID,
		PrevState:  string(prev),
		NewState:   string(manuscript.Status),
		Reason:     reason,
		At:         now,
	})
	s.log.Info().
		Uint("manuscript_id", manuscript.ID).
		Str("transition", string(transition)).
		Str("from", string(prev)).
		Str("to", string(manuscript.Status)).
		Uint("actor_id", actor.ID).
		Msg("manuscript transition applied")

	return manuscript, nil
}

// authorSuspended tolerates a missing profile: readers and legacy authors
// without one are simply not suspended.
func (s *workflowService) authorSuspended(authorID uint) (bool, error) {
	profile, err := s.profiles.GetByAuthorID(authorID)
	if err != nil {
		var notFound models.ErrorNotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Suspended, nil
}
