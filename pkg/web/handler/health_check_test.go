package handler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"

	"dofe-blog/pkg/common/testutil"
	"dofe-blog/pkg/core/session"
)

type downStore struct {
	*session.MemoryStore
}

func (downStore) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.5:6379: connect: connection refused")
}

func TestHealthCheckReportsDownStore(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	store := downStore{session.NewMemoryStore()}

	for name, tt := range map[string]struct {
		hideErrors bool
		leaked     bool
	}{
		"development": {hideErrors: false, leaked: true},
		"production":  {hideErrors: true, leaked: false},
	} {
		t.Run(name, func(t *testing.T) {
			h := server.New()
			h.GET("/health", NewHealthCheckHandler(db, store, tt.hideErrors).AdvancedHealthCheck)

			resp := ut.PerformRequest(h.Engine, "GET", "/health", nil).Result()
			body := string(resp.Body())
			assert.Equal(t, 503, resp.StatusCode())
			assert.Contains(t, body, "degraded")
			assert.Equal(t, tt.leaked, strings.Contains(body, "10.0.0.5:6379"))
			assert.Contains(t, body, `"session_store"`)
		})
	}
}
