package persistent

import (
	"context"
	"errors"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const userNotFound = "User not found"

type UserRepository interface {
	// Upsert creates the user on first sign-in or refreshes the profile fields.
	// The bool result reports whether a new row was inserted.
	Upsert(ctx context.Context, profile entity.UserProfile, now time.Time) (*entity.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.Role, now time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, profile entity.UserProfile, now time.Time) (*entity.User, bool, error) {
	var (
		userModel model.UserModel
		created   bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", profile.Email).
			First(&userModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			createdAt := now
			if profile.CreatedAt != nil {
				createdAt = *profile.CreatedAt
			}
			userModel = model.UserModel{
				Email:        profile.Email,
				Name:         profile.Name,
				Photo:        profile.Photo,
				Bio:          profile.Bio,
				AuthProvider: profile.AuthProvider,
				Role:         string(entity.RoleUser),
				Membership:   model.MembershipModel{Status: string(entity.MembershipNone)},
				CreatedAt:    createdAt,
				UpdatedAt:    now,
			}
			created = true
			return tx.Create(&userModel).Error
		}
		if err != nil {
			return err
		}

		userModel.Name = profile.Name
		userModel.Photo = profile.Photo
		userModel.Bio = profile.Bio
		userModel.AuthProvider = profile.AuthProvider
		userModel.UpdatedAt = now
		return tx.Model(&userModel).Updates(map[string]interface{}{
			"name":          profile.Name,
			"photo":         profile.Photo,
			"bio":           profile.Bio,
			"auth_provider": profile.AuthProvider,
			"updated_at":    now,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, entity.Conflict("Email already exists")
		}
		return nil, false, err
	}

	return ToUserEntity(&userModel), created, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, translate(err, userNotFound)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, translate(err, userNotFound)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []model.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&userModels).Error; err != nil {
		return nil, err
	}
	return ToUserEntities(userModels), nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role entity.Role, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"role": string(role), "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.NotFound(userNotFound)
	}
	return nil
}
