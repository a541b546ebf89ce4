package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/user/model"
	userservice "dofe-blog/pkg/core/user/service"
)

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type Manager struct {
	users     UserFinder
	hasher    userservice.Hasher
	store     Store
	signer    *TokenSigner
	ttl       time.Duration
	dummyHash string
	now       func() time.Time
}

func NewManager(users UserFinder, hasher userservice.Hasher, store Store, signer *TokenSigner, ttl time.Duration) (*Manager, error) {
	// 用户不存在时也做一次哈希比较，避免通过响应时间枚举用户名
	dummyHash, err := hasher.Hash("timing-equalizer-" + uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Manager{
		users:     users,
		hasher:    hasher,
		store:     store,
		signer:    signer,
		ttl:       ttl,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

func (m *Manager) Store() Store {
	return m.store
}

// Login checks the credentials and opens a new session. Unknown user and wrong
// password both return ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := m.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		m.hasher.Verify(password, m.dummyHash)
		return nil, apperrors.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if !m.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := m.now().UTC()
	userID := user.ID
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    &userID,
		CreatedAt: now,
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, fmt.Errorf("%w: save session: %v", apperrors.ErrStoreUnavailable, err)
	}

	token, err := m.signer.Sign(sess.ID, now)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	sess.Token = token
	return sess, nil
}

// Logout forgets the session. Logging out without a session is a no-op.
func (m *Manager) Logout(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("%w: delete session: %v", apperrors.ErrStoreUnavailable, err)
	}
	sess.ID = ""
	sess.UserID = nil
	sess.Token = ""
	return nil
}

// CurrentUser returns the logged-in user, or nil for an anonymous session.
func (m *Manager) CurrentUser(ctx context.Context, sess *Session) (*model.User, error) {
	userID, ok := sess.CurrentUserID()
	if !ok {
		return nil, nil
	}
	user, err := m.users.FindByID(ctx, userID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// Resolve maps a cookie token to its session. Anything that does not verify
// yields an anonymous session.
func (m *Manager) Resolve(ctx context.Context, token string) *Session {
	if token == "" {
		return Anonymous()
	}
	sessionID, err := m.signer.Parse(token)
	if err != nil {
		hlog.CtxDebugf(ctx, "rejected session token: %v", err)
		return Anonymous()
	}
	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			hlog.CtxWarnf(ctx, "session store lookup failed: %v", err)
		}
		return Anonymous()
	}
	sess.Token = token
	return sess
}
