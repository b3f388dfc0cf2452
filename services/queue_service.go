package services

import (
	"inkpress/models"
	"inkpress/repositories"
)

// QueueService serves the read-side queue projections. It never mutates
// state; total counts are returned alongside the page for UI counters.
type QueueService interface {
	PendingVerifications(params models.VerificationListParams) ([]models.AuthorProfile, int64, error)
	Manuscripts(actor models.Actor, params models.ManuscriptListParams) ([]models.Manuscript, int64, error)
}

type queueService struct {
	manuscripts repositories.ManuscriptRepository
	profiles    repositories.AuthorProfileRepository
}

func NewQueueService(manuscripts repositories.ManuscriptRepository, profiles repositories.AuthorProfileRepository) QueueService {
	return &queueService{manuscripts: manuscripts, profiles: profiles}
}

func (s *queueService) PendingVerifications(params models.VerificationListParams) ([]models.AuthorProfile, int64, error) {
	normalizePaging(&params.Page, &params.Limit)
	return s.profiles.ListPending(params)
}

// Manuscripts normalizes a caller-supplied status filter (canonical or
// legacy alias) before querying. Non-admin callers only see their own
// manuscripts.
func (s *queueService) Manuscripts(actor models.Actor, params models.ManuscriptListParams) ([]models.Manuscript, int64, error) {
	normalizePaging(&params.Page, &params.Limit)

	var status models.ManuscriptStatus
	if params.Status != "" {
		normalized, err := models.NormalizeStatus(params.Status)
		if err != nil {
			return nil, 0, err
		}
		status = normalized
	}

	if actor.Role != models.RoleAdmin {
		params.AuthorID = actor.ID
	}

	return s.manuscripts.GetList(params, status)
}

func normalizePaging(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 10
	}
	if *limit > 100 {
		*limit = 100
	}
}
