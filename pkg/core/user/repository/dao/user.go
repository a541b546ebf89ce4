package dao

import (
	"context"

	"dofe-blog/pkg/core/user/model"
)

type UserRepository interface {
	QueryByID(ctx context.Context, id int64) (*model.User, error)
	QueryByUsername(ctx context.Context, username string) (*model.User, error)
	// CreateUser checks username/email uniqueness and inserts in one transaction.
	CreateUser(ctx context.Context, user *model.User) error
}
