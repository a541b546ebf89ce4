package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/common/testutil"
	dao "dofe-blog/pkg/core/user/repository/dao/impl"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	repo := dao.NewGormUserRepository(testutil.NewSQLiteDB(t))
	return NewUserService(repo, NewBcryptHasher(bcrypt.MinCost))
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := svc.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.NotEmpty(t, found.PasswordHash)
	assert.NotEqual(t, "Passw0rd!", found.PasswordHash)
	assert.True(t, svc.Hasher().Verify("Passw0rd!", found.PasswordHash))
}

func TestRegisterAcceptsLongPassword(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()
	password := "Passw0rd!" + strings.Repeat("a", 70)

	user, err := svc.Register(ctx, "alice", "alice@x.com", password)
	require.NoError(t, err)
	assert.True(t, svc.Hasher().Verify(password, user.PasswordHash))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@x.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "alice2@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCredential)

	_, err = svc.Register(ctx, "alice2", "alice@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCredential)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newTestUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "  ", "a@x.com", "Passw0rd!", apperrors.ErrValidation},
		{"bad email", "alice", "not-an-email", "Passw0rd!", apperrors.ErrValidation},
		{"weak password", "alice", "alice@x.com", "password", apperrors.ErrPolicyViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "rejected registrations store nothing")
}
