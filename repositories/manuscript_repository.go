package repositories

import (
	"errors"
	"strconv"
	"time"

	"inkpress/models"

	"gorm.io/gorm"
)

type ManuscriptRepository interface {
	Create(manuscript *models.Manuscript, entry *models.AuditEntry) error
	GetByID(id uint) (*models.Manuscript, error)
	GetList(params models.ManuscriptListParams, status models.ManuscriptStatus) ([]models.Manuscript, int64, error)
	// ApplyTransition persists the new state with a lock-version
	// compare-and-set and appends the audit entry in the same
	// transaction. A lost race returns ErrorConflict.
	ApplyTransition(manuscript *models.Manuscript, expectedVersion uint, entry *models.AuditEntry) error
	CountPublishedByAuthor(authorID uint) (int64, error)
}

type manuscriptRepository struct {
	db *gorm.DB
}

func NewManuscriptRepository(db *gorm.DB) ManuscriptRepository {
	return &manuscriptRepository{db: db}
}

func (r *manuscriptRepository) Create(manuscript *models.Manuscript, entry *models.AuditEntry) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(manuscript).Error; err != nil {
			return err
		}
		entry.TargetID = strconv.FormatUint(uint64(manuscript.ID), 10)
		return tx.Create(entry).Error
	})
	if err != nil {
		return models.ErrorInternalServer{Message: "failed to create manuscript", Err: err}
	}
	return nil
}

func (r *manuscriptRepository) GetByID(id uint) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	err := r.db.Preload("Author").First(&manuscript, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Entity: "manuscript", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, models.ErrorInternalServer{Message: "failed to load manuscript", Err: err}
	}
	return &manuscript, nil
}

func (r *manuscriptRepository) GetList(params models.ManuscriptListParams, status models.ManuscriptStatus) ([]models.Manuscript, int64, error) {
	var manuscripts []models.Manuscript
	var total int64

	query := r.db.Model(&models.Manuscript{}).Preload("Author")

	if status != "" {
		// Legacy rows may still carry alias forms of the same status.
		query = query.Where("LOWER(status) IN ?", aliasesOf(status))
	}
	if params.AuthorID > 0 {
		query = query.Where("author_id = ?", params.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to count manuscripts", Err: err}
	}

	order := "submitted_at asc NULLS LAST"
	if params.SortOrder == "desc" {
		order = "submitted_at desc NULLS LAST"
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order(order).Offset(offset).Limit(params.Limit).Find(&manuscripts).Error
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list manuscripts", Err: err}
	}

	return manuscripts, total, nil
}

// aliasesOf returns every persisted spelling that normalizes to the given
// canonical status, lowercased for the LOWER(status) comparison.
func aliasesOf(status models.ManuscriptStatus) []string {
	forms := []string{string(status)}
	switch status {
	case models.StatusDraft:
		forms = append(forms, "editing")
	case models.StatusInReview:
		forms = append(forms, "review")
	}
	return forms
}

func (r *manuscriptRepository) ApplyTransition(manuscript *models.Manuscript, expectedVersion uint, entry *models.AuditEntry) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":           manuscript.Status,
			"reviewer_id":      manuscript.ReviewerID,
			"rejection_reason": manuscript.RejectionReason,
			"submitted_at":     manuscript.SubmittedAt,
			"lock_version":     expectedVersion + 1,
			"updated_at":       time.Now(),
		}
		res := tx.Model(&models.Manuscript{}).
			Where("id = ? AND lock_version = ?", manuscript.ID, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrorConflict{Entity: "manuscript", ID: strconv.FormatUint(uint64(manuscript.ID), 10)}
		}
		manuscript.LockVersion = expectedVersion + 1
		return tx.Create(entry).Error
	})
	if err != nil {
		var conflict models.ErrorConflict
		if errors.As(err, &conflict) {
			return conflict
		}
		return models.ErrorInternalServer{Message: "failed to apply transition", Err: err}
	}
	return nil
}

func (r *manuscriptRepository) CountPublishedByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Manuscript{}).
		Where("author_id = ? AND LOWER(status) = ?", authorID, string(models.StatusPublished)).
		Count(&count).Error
	if err != nil {
		return 0, models.ErrorInternalServer{Message: "failed to count published manuscripts", Err: err}
	}
	return count, nil
}
