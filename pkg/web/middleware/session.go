package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"dofe-blog/pkg/core/session"
)

const sessionKey = "session"

// SessionMiddleware 解析会话 cookie，把会话（匿名或已登录）放进请求上下文
func SessionMiddleware(manager *session.Manager, cookieName string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		token := string(ctx.Cookie(cookieName))
		ctx.Set(sessionKey, manager.Resolve(c, token))
		ctx.Next(c)
	}
}

// SessionFrom 返回当前请求的会话，没有经过 SessionMiddleware 时返回匿名会话
func SessionFrom(ctx *app.RequestContext) *session.Session {
	if v, ok := ctx.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok && sess != nil {
			return sess
		}
	}
	return session.Anonymous()
}
