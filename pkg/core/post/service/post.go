package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/post/model"
	"dofe-blog/pkg/core/post/repository/dao"
)

type PostService struct {
	repo dao.PostRepository
	now  func() time.Time
}

func NewPostService(repo dao.PostRepository) *PostService {
	return &PostService{repo: repo, now: time.Now}
}

// Create stores a post owned by the authenticated principal.
func (s *PostService) Create(ctx context.Context, principal Principal, title, content string) (*model.Post, error) {
	ownerID, ok := authenticated(principal)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	title, content, err := validatePost(title, content)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:     title,
		Content:   content,
		UserID:    ownerID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.repo.ListNewestFirst(ctx)
}

func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.repo.QueryByID(ctx, id)
}

// GetForEdit loads a post the principal may change. A missing post is
// reported before ownership is checked.
func (s *PostService) GetForEdit(ctx context.Context, principal Principal, id int64) (*model.Post, error) {
	post, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(principal, post) {
		return nil, apperrors.ErrForbidden
	}
	return post, nil
}

// Update overwrites title and content; id, owner and creation time stay as they were.
func (s *PostService) Update(ctx context.Context, principal Principal, id int64, title, content string) (*model.Post, error) {
	post, err := s.GetForEdit(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	title, content, err = validatePost(title, content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOwned(ctx, post.ID, post.UserID, title, content); err != nil {
		return nil, err
	}
	post.Title = title
	post.Content = content
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, principal Principal, id int64) error {
	post, err := s.GetForEdit(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteOwned(ctx, post.ID, post.UserID)
}

func authenticated(principal Principal) (int64, bool) {
	if principal == nil {
		return 0, false
	}
	return principal.CurrentUserID()
}

func validatePost(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", apperrors.NewValidation("title", "title is required")
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return "", "", apperrors.NewValidation("title", "title must not exceed 100 characters")
	}
	if strings.TrimSpace(content) == "" {
		return "", "", apperrors.NewValidation("content", "content is required")
	}
	return title, content, nil
}
