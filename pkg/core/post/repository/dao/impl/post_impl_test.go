package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/common/testutil"
	"dofe-blog/pkg/core/post/model"
	usermodel "dofe-blog/pkg/core/user/model"
)

func seedUser(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	user := usermodel.User{Username: name, Email: name + "@x.com", PasswordHash: "h"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestGormPostRepository_CreateAndQuery(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	post := &model.Post{Title: "Hi", Content: "First", UserID: alice, CreatedAt: created}
	require.NoError(t, repo.Create(ctx, post))
	assert.NotZero(t, post.ID)

	got, err := repo.QueryByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Title)
	assert.Equal(t, alice, got.UserID)
	assert.Equal(t, "alice", got.User.Username)
	assert.Empty(t, got.User.PasswordHash, "author preload must not load the hash")
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = repo.QueryByID(ctx, post.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGormPostRepository_CreateRequiresExistingOwner(t *testing.T) {
	repo := NewGormPostRepository(testutil.NewSQLiteDB(t))

	err := repo.Create(context.Background(), &model.Post{Title: "x", Content: "y", UserID: 42, CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGormPostRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// inserted out of chronological order on purpose
	for _, p := range []model.Post{
		{Title: "middle", CreatedAt: base.Add(time.Hour)},
		{Title: "oldest", CreatedAt: base},
		{Title: "newest", CreatedAt: base.Add(2 * time.Hour)},
	} {
		p.Content = "c"
		p.UserID = alice
		require.NoError(t, repo.Create(ctx, &p))
	}

	posts, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, []string{posts[0].Title, posts[1].Title, posts[2].Title})
	assert.Equal(t, "alice", posts[0].User.Username)
}

func TestGormPostRepository_UpdateAndDeleteOwned(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	post := &model.Post{Title: "Hi", Content: "First", UserID: alice, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, post))

	assert.ErrorIs(t, repo.UpdateOwned(ctx, post.ID, bob, "hacked", "hacked"), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, post.ID, bob), apperrors.ErrNotFound)

	require.NoError(t, repo.UpdateOwned(ctx, post.ID, alice, "Hello", "Edited"))
	got, err := repo.QueryByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "Edited", got.Content)

	require.NoError(t, repo.DeleteOwned(ctx, post.ID, alice))
	_, err = repo.QueryByID(ctx, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, post.ID, alice), apperrors.ErrNotFound)
}
