package dao

import (
	"context"

	"dofe-blog/pkg/core/post/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// ListNewestFirst orders by created_at then id, both descending.
	ListNewestFirst(ctx context.Context) ([]model.Post, error)
	QueryByID(ctx context.Context, id int64) (*model.Post, error)
	// UpdateOwned and DeleteOwned only touch the row when ownerID still matches.
	UpdateOwned(ctx context.Context, id, ownerID int64, title, content string) error
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
