package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/core/session"
	"dofe-blog/pkg/web/middleware"
)

const flashCookie = "flash"

// CookieOptions 会话 cookie 的属性
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// Renderer 渲染页面，自动带上当前用户和一次性提示消息
type Renderer struct {
	sessions *session.Manager
	cookie   CookieOptions
}

func NewRenderer(sessions *session.Manager, cookie CookieOptions) *Renderer {
	return &Renderer{sessions: sessions, cookie: cookie}
}

func (r *Renderer) page(ctx context.Context, c *app.RequestContext, status int, name string, data utils.H) {
	if data == nil {
		data = utils.H{}
	}
	user, err := r.sessions.CurrentUser(ctx, middleware.SessionFrom(c))
	if err != nil {
		// 取不到用户时按匿名渲染
		hlog.CtxWarnf(ctx, "load current user: %v", err)
	}
	data["User"] = user
	data["Flash"] = popFlash(c)
	c.HTML(status, name, data)
}

// fail 渲染错误页，状态码由错误类型决定
func (r *Renderer) fail(ctx context.Context, c *app.RequestContext, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(apperrors.Private(err, nil))
	} else {
		_ = c.Error(apperrors.Public(err, nil))
	}
	r.page(ctx, c, status, "error.html", utils.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": apperrors.Message(err),
	})
}

// redirectWithFlash 重定向并带一条提示，刷新后不会重复提交表单
func redirectWithFlash(c *app.RequestContext, location, msg string) {
	if msg != "" {
		c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString([]byte(msg)), 60, "/", "",
			protocol.CookieSameSiteLaxMode, false, true)
	}
	c.Redirect(http.StatusSeeOther, []byte(location))
}

func popFlash(c *app.RequestContext) string {
	raw := c.Cookie(flashCookie)
	if len(raw) == 0 {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", protocol.CookieSameSiteLaxMode, false, true)
	msg, err := base64.RawURLEncoding.DecodeString(string(raw))
	if err != nil {
		return ""
	}
	return string(msg)
}

func (r *Renderer) setSessionCookie(c *app.RequestContext, token string) {
	c.SetCookie(r.cookie.Name, token, int(r.cookie.MaxAge/time.Second), "/", "",
		protocol.CookieSameSiteLaxMode, r.cookie.Secure, true)
}

func (r *Renderer) clearSessionCookie(c *app.RequestContext) {
	c.SetCookie(r.cookie.Name, "", -1, "/", "", protocol.CookieSameSiteLaxMode, r.cookie.Secure, true)
}

// postID 解析路径里的文章 id，非法 id 当作不存在
func postID(c *app.RequestContext) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

// outcome 指标标签
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.HTTPStatus(err) {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}
