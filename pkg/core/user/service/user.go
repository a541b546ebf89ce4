package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/user/model"
	"dofe-blog/pkg/core/user/repository/dao"
)

const (
	maxUsernameLength = 80
	maxEmailLength    = 120
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService is the credential store: registration and user lookups.
type UserService struct {
	repo   dao.UserRepository
	hasher Hasher
}

func NewUserService(repo dao.UserRepository, hasher Hasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

func (s *UserService) Hasher() Hasher {
	return s.hasher
}

// Register validates the input, hashes the password and stores a new user.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.QueryByUsername(ctx, strings.TrimSpace(username))
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.QueryByID(ctx, id)
}

func validateUsername(username string) error {
	if username == "" {
		return apperrors.NewValidation("username", "username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return apperrors.NewValidation("username", fmt.Sprintf("username must not exceed %d characters", maxUsernameLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.NewValidation("email", "email is required")
	}
	if len(email) > maxEmailLength {
		return apperrors.NewValidation("email", fmt.Sprintf("email must not exceed %d characters", maxEmailLength))
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidation("email", "invalid email format")
	}
	return nil
}
