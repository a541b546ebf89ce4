package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/post/model"
	"dofe-blog/pkg/core/post/repository/dao"
)

type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

var _ dao.PostRepository = (*GormPostRepository)(nil)

// 只预加载作者的公开字段
func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

func (r *GormPostRepository) Create(ctx context.Context, post *model.Post) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(post).Error
	if err != nil {
		return fmt.Errorf("post creation failed: %w", apperrors.WrapGormError(err))
	}
	return nil
}

func (r *GormPostRepository) ListNewestFirst(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("User", preloadAuthor).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("post list failed: %w", apperrors.WrapGormError(err))
	}
	return posts, nil
}

func (r *GormPostRepository) QueryByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("User", preloadAuthor).
		Where("id = ?", id).
		First(&post).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("post query failed: %w", apperrors.WrapGormError(err))
	default:
		return &post, nil
	}
}

// UpdateOwned 单条 UPDATE 带 owner 条件，检查与写入在同一语句内完成
func (r *GormPostRepository) UpdateOwned(ctx context.Context, id, ownerID int64, title, content string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
		})
	if result.Error != nil {
		return fmt.Errorf("post update failed: %w", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Post{})
	if result.Error != nil {
		return fmt.Errorf("post delete failed: %w", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
