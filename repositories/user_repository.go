package repositories

import (
	"errors"
	"strconv"

	"inkpress/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	CreateWithProfile(user *models.User, profile *models.AuthorProfile) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return models.ErrorInternalServer{Message: "failed to create user", Err: err}
	}
	return nil
}

// CreateWithProfile registers an author together with their verification
// profile. A profile write failure rolls the signup back instead of being
// swallowed.
func (r *userRepository) CreateWithProfile(user *models.User, profile *models.AuthorProfile) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.AuthorID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return models.ErrorInternalServer{Message: "failed to create user", Err: err}
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Entity: "user", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, models.ErrorInternalServer{Message: "failed to load user", Err: err}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Entity: "user", ID: email}
		}
		return nil, models.ErrorInternalServer{Message: "failed to load user", Err: err}
	}
	return &user, nil
}
