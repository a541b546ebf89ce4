package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/common/testutil"
	"dofe-blog/pkg/core/user/model"
	dao "dofe-blog/pkg/core/user/repository/dao/impl"
	userservice "dofe-blog/pkg/core/user/service"
)

type fixture struct {
	users   *userservice.UserService
	manager *Manager
	alice   *model.User
}

func newFixture(t *testing.T, store Store) *fixture {
	t.Helper()
	hasher := userservice.NewBcryptHasher(bcrypt.MinCost)
	users := userservice.NewUserService(dao.NewGormUserRepository(testutil.NewSQLiteDB(t)), hasher)
	signer, err := NewTokenSigner("test-secret", "HS256", "dofe-blog", time.Hour)
	require.NoError(t, err)
	manager, err := NewManager(users, hasher, store, signer, time.Hour)
	require.NoError(t, err)

	alice, err := users.Register(context.Background(), "alice", "alice@x.com", "Passw0rd!")
	require.NoError(t, err)
	return &fixture{users: users, manager: manager, alice: alice}
}

func TestLoginBindsSessionToUser(t *testing.T) {
	store, _ := newMiniredisStore(t)
	f := newFixture(t, store)
	ctx := context.Background()

	sess, err := f.manager.Login(ctx, "alice", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)

	current, err := f.manager.CurrentUser(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, f.alice.ID, current.ID)

	resolved := f.manager.Resolve(ctx, sess.Token)
	id, ok := resolved.CurrentUserID()
	assert.True(t, ok)
	assert.Equal(t, f.alice.ID, id)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, wrongPassword := f.manager.Login(ctx, "alice", "Wrong0ne!")
	_, unknownUser := f.manager.Login(ctx, "mallory", "Passw0rd!")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginDoesNotRecheckPolicy(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	_, err := f.manager.Login(context.Background(), "alice", "weak")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	f := newFixture(t, store)
	ctx := context.Background()

	sess, err := f.manager.Login(ctx, "alice", "Passw0rd!")
	require.NoError(t, err)
	token := sess.Token

	require.NoError(t, f.manager.Logout(ctx, sess))
	assert.False(t, sess.Authenticated())
	assert.False(t, f.manager.Resolve(ctx, token).Authenticated(), "token is dead after logout")

	require.NoError(t, f.manager.Logout(ctx, sess))
	require.NoError(t, f.manager.Logout(ctx, Anonymous()))
	require.NoError(t, f.manager.Logout(ctx, nil))
}

func TestCurrentUserAnonymous(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	user, err := f.manager.CurrentUser(context.Background(), Anonymous())
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveRejectsForgedTokens(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	assert.False(t, f.manager.Resolve(ctx, "").Authenticated())
	assert.False(t, f.manager.Resolve(ctx, "garbage").Authenticated())

	forger, err := NewTokenSigner("attacker", "HS256", "dofe-blog", time.Hour)
	require.NoError(t, err)
	sess, err := f.manager.Login(ctx, "alice", "Passw0rd!")
	require.NoError(t, err)
	forged, err := forger.Sign(sess.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, f.manager.Resolve(ctx, forged).Authenticated())
}
