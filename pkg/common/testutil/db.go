// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dofe-blog/pkg/common/config"
	postmodel "dofe-blog/pkg/core/post/model"
	usermodel "dofe-blog/pkg/core/user/model"
)

// NewSQLiteDB opens a private in-memory database with the blog schema migrated.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: "sqlite",
		// shared cache keeps the schema alive across pooled connections
		DBName:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MinPoolSize: 1,
		MaxPoolSize: 1,
		LogLevel:    "silent",
	}}

	db, err := cfg.InitDB()
	require.NoError(t, err)
	require.NoError(t, usermodel.AutoMigrate(db))
	require.NoError(t, postmodel.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
