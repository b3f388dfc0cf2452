package repositories

import (
	"errors"
	"strconv"
	"time"

	"inkpress/models"

	"gorm.io/gorm"
)

type AuthorProfileRepository interface {
	Create(profile *models.AuthorProfile) error
	GetByAuthorID(authorID uint) (*models.AuthorProfile, error)
	// ApplyUpdate persists the profile flags with a lock-version
	// compare-and-set and appends the audit entry in the same
	// transaction.
	ApplyUpdate(profile *models.AuthorProfile, expectedVersion uint, entry *models.AuditEntry) error
	ListPending(params models.VerificationListParams) ([]models.AuthorProfile, int64, error)
}

type authorProfileRepository struct {
	db *gorm.DB
}

func NewAuthorProfileRepository(db *gorm.DB) AuthorProfileRepository {
	return &authorProfileRepository{db: db}
}

const bookCountSubquery = `(SELECT COUNT(*) FROM manuscripts
	WHERE manuscripts.author_id = author_profiles.author_id
	AND LOWER(manuscripts.status) = 'published'
	AND manuscripts.deleted_at IS NULL) AS book_count`

func (r *authorProfileRepository) Create(profile *models.AuthorProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return models.ErrorInternalServer{Message: "failed to create author profile", Err: err}
	}
	return nil
}

func (r *authorProfileRepository) GetByAuthorID(authorID uint) (*models.AuthorProfile, error) {
	var profile models.AuthorProfile
	err := r.db.Select("author_profiles.*, "+bookCountSubquery).
		Preload("Author").
		Where("author_id = ?", authorID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Entity: "author profile", ID: strconv.FormatUint(uint64(authorID), 10)}
		}
		return nil, models.ErrorInternalServer{Message: "failed to load author profile", Err: err}
	}
	return &profile, nil
}

func (r *authorProfileRepository) ApplyUpdate(profile *models.AuthorProfile, expectedVersion uint, entry *models.AuditEntry) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_verified":               profile.IsVerified,
			"verification_requested":    profile.VerificationRequested,
			"verification_requested_at": profile.VerificationRequestedAt,
			"suspended":                 profile.Suspended,
			"last_action_reason":        profile.LastActionReason,
			"last_action_at":            profile.LastActionAt,
			"last_actor_id":             profile.LastActorID,
			"lock_version":              expectedVersion + 1,
			"updated_at":                time.Now(),
		}
		res := tx.Model(&models.AuthorProfile{}).
			Where("author_id = ? AND lock_version = ?", profile.AuthorID, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrorConflict{Entity: "author profile", ID: strconv.FormatUint(uint64(profile.AuthorID), 10)}
		}
		profile.LockVersion = expectedVersion + 1
		return tx.Create(entry).Error
	})
	if err != nil {
		var conflict models.ErrorConflict
		if errors.As(err, &conflict) {
			return conflict
		}
		return models.ErrorInternalServer{Message: "failed to update author profile", Err: err}
	}
	return nil
}

// ListPending returns the verification queue, oldest request first, each
// row carrying the author's published book count.
func (r *authorProfileRepository) ListPending(params models.VerificationListParams) ([]models.AuthorProfile, int64, error) {
	var profiles []models.AuthorProfile
	var total int64

	query := r.db.Model(&models.AuthorProfile{}).
		Where("verification_requested = ? AND is_verified = ? AND suspended = ?", true, false, false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to count pending verifications", Err: err}
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Select("author_profiles.*, "+bookCountSubquery).
		Preload("Author").
		Order("verification_requested_at asc").
		Offset(offset).Limit(params.Limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list pending verifications", Err: err}
	}

	return profiles, total, nil
}
