package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/user/model"
	"dofe-blog/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func (r *GormUserRepository) QueryByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("user query failed: %w", apperrors.WrapGormError(err))
	default:
		return &user, nil
	}
}

func (r *GormUserRepository) QueryByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).
		Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("user lookup failed: %w", apperrors.WrapGormError(err))
	default:
		return &user, nil
	}
}

// CreateUser 在同一事务内做一次组合查重并插入；唯一索引兜底并发注册
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("credential check failed: %w", apperrors.WrapGormError(err))
		}
		if count > 0 {
			return apperrors.ErrDuplicateCredential
		}

		if err := tx.Create(user).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.ErrDuplicateCredential
			}
			return fmt.Errorf("user creation failed: %w", apperrors.WrapGormError(err))
		}
		return nil
	})
}
