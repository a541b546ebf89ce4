package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"

	"dofe-blog/pkg/core/session"
)

type HealthCheckHandler struct {
	db    *gorm.DB
	store session.Store
	// 为 true 时不在响应里返回底层错误信息
	hideErrors bool
}

func NewHealthCheckHandler(db *gorm.DB, store session.Store, hideErrors bool) *HealthCheckHandler {
	return &HealthCheckHandler{db: db, store: store, hideErrors: hideErrors}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 检查数据库和会话存储
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startupTime).Round(time.Second).String(),
		Components: []ComponentStatus{
			h.checkDatabase(ctx),
			h.checkSessionStore(ctx),
		},
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func (h *HealthCheckHandler) checkDatabase(ctx context.Context) ComponentStatus {
	return h.probe(ctx, "database", func(ctx context.Context) error {
		sqlDB, err := h.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

func (h *HealthCheckHandler) checkSessionStore(ctx context.Context) ComponentStatus {
	return h.probe(ctx, "session_store", h.store.Ping)
}

func (h *HealthCheckHandler) probe(ctx context.Context, name string, ping func(context.Context) error) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	comp := ComponentStatus{Name: name, Status: "ok", IsCore: true, Latency: time.Since(start)}
	if err != nil {
		hlog.CtxErrorf(ctx, "health check %s failed: %v", name, err)
		comp.Status = "down"
		comp.Error = err.Error()
		if h.hideErrors {
			comp.Error = "unavailable"
		}
	}
	return comp
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
