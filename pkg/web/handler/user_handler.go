package handler

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/common/metrics"
	"dofe-blog/pkg/core/session"
	userservice "dofe-blog/pkg/core/user/service"
	"dofe-blog/pkg/web/middleware"
	"dofe-blog/pkg/web/model"
)

type UserHandler struct {
	*Renderer
	users    *userservice.UserService
	sessions *session.Manager
}

func NewUserHandler(r *Renderer, users *userservice.UserService, sessions *session.Manager) *UserHandler {
	return &UserHandler{Renderer: r, users: users, sessions: sessions}
}

func (h *UserHandler) RegisterForm(ctx context.Context, c *app.RequestContext) {
	h.page(ctx, c, 200, "register.html", utils.H{"Title": "Register"})
}

func (h *UserHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req model.RegisterReq
	if err := c.BindAndValidate(&req); err != nil {
		redirectWithFlash(c, "/register", apperrors.ErrValidation.Error())
		return
	}

	user, err := h.users.Register(ctx, req.Username, req.Email, req.Password)
	metrics.AuthAttempts.WithLabelValues("register", outcome(err)).Inc()
	if err != nil {
		if apperrors.IsUserError(err) {
			redirectWithFlash(c, "/register", apperrors.Message(err))
			return
		}
		h.fail(ctx, c, err)
		return
	}

	hlog.CtxInfof(ctx, "user registered: %s", user)
	redirectWithFlash(c, "/login", "Registration successful, please log in")
}

func (h *UserHandler) LoginForm(ctx context.Context, c *app.RequestContext) {
	h.page(ctx, c, 200, "login.html", utils.H{"Title": "Log in"})
}

func (h *UserHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		redirectWithFlash(c, "/login", apperrors.ErrInvalidCredentials.Error())
		return
	}

	sess, err := h.sessions.Login(ctx, req.Username, req.Password)
	metrics.AuthAttempts.WithLabelValues("login", outcome(err)).Inc()
	if err != nil {
		if apperrors.IsUserError(err) {
			redirectWithFlash(c, "/login", apperrors.Message(err))
			return
		}
		h.fail(ctx, c, err)
		return
	}

	// 已有会话先作废，避免旧 cookie 继续可用
	if err := h.sessions.Logout(ctx, middleware.SessionFrom(c)); err != nil {
		hlog.CtxWarnf(ctx, "drop previous session: %v", err)
	}
	h.setSessionCookie(c, sess.Token)
	redirectWithFlash(c, "/", fmt.Sprintf("Welcome back, %s", req.Username))
}

func (h *UserHandler) Logout(ctx context.Context, c *app.RequestContext) {
	err := h.sessions.Logout(ctx, middleware.SessionFrom(c))
	metrics.AuthAttempts.WithLabelValues("logout", outcome(err)).Inc()
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	h.clearSessionCookie(c)
	redirectWithFlash(c, "/", "You have been logged out")
}
