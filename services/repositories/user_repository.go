package repositories

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
	"gorm.io/gorm"
)

type UserRepository struct {
	BaseRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *UserRepository) Create(user *model.User) error {
	id, _ := uuid.NewV7()
	user.ID = id.String()
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(userID string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmailOrUsername(value string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ? OR username = ?", value, value).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FilterActive narrows a candidate id set down to ACTIVE users.
func (r *UserRepository) FilterActive(userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var activeIDs []string
	err := r.db.Model(&model.User{}).
		Where("id IN ? AND status = ?", userIDs, shared.UserStatusActive).
		Pluck("id", &activeIDs).Error
	return activeIDs, err
}
