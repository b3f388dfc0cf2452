package repositories

import (
	"inkpress/models"

	"gorm.io/gorm"
)

// AuditRepository is read-only; entries are appended by the manuscript
// and profile repositories inside their transition transactions.
type AuditRepository interface {
	GetList(params models.AuditListParams) ([]models.AuditEntry, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) GetList(params models.AuditListParams) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry
	var total int64

	query := r.db.Model(&models.AuditEntry{})
	if params.TargetType != "" {
		query = query.Where("target_type = ?", params.TargetType)
	}
	if params.TargetID != "" {
		query = query.Where("target_id = ?", params.TargetID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to count audit entries", Err: err}
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order("created_at desc").Offset(offset).Limit(params.Limit).Find(&entries).Error
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list audit entries", Err: err}
	}

	return entries, total, nil
}
