package middleware

import (
	"context"
	"fmt"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"

	"dofe-blog/pkg/common/config"
	"dofe-blog/pkg/common/metrics"
)

// LoggerMiddleware 结构化的请求日志记录
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c) // 放行到后续处理器
		latency := time.Since(start)
		status := ctx.Response.StatusCode()

		metrics.RequestLatency.
			WithLabelValues(string(ctx.Method()), strconv.Itoa(status)).
			Observe(latency.Seconds())

		hlog.CtxTracef(c, "| %3d | %13v | %15s | %-7s | %s",
			status,
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
		)

		// 处理器挂上来的错误统一在这里输出
		for _, e := range ctx.Errors {
			if status >= 500 {
				hlog.CtxErrorf(c, "%s %s: %v", ctx.Method(), ctx.Path(), e.Err)
			} else {
				hlog.CtxInfof(c, "%s %s: %v", ctx.Method(), ctx.Path(), e.Err)
			}
		}
	}
}

/*
	启动时指定环境变量
	export APP_ENV=production
	go run main.go
*/

// RecoveryMiddleware 异常捕获，生产环境不暴露堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())
				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithMsg("internal server error", 500)
					return
				}
				ctx.AbortWithMsg(fmt.Sprintf("%v\n\n%s", err, stack), 500)
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 安全的跨域配置
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			// 动态校验来源
			AllowOriginFunc: func(origin string) bool {
				return trustedOrigin(origin, corsConfig.TrustedDomains)
			},
		},
	)
}

// trustedOrigin 来源主机必须等于受信域名，或是它的子域名
func trustedOrigin(origin string, domains []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// TimeoutMiddleware 给后续处理器的 context 加上截止时间，数据库和 Redis 调用会随之取消
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if seconds <= 0 {
			ctx.Next(c)
			return
		}
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		ctx.Next(timeoutCtx)

		if timeoutCtx.Err() == context.DeadlineExceeded {
			hlog.CtxWarnf(c, "request timeout path=%s", ctx.Path())
		}
	}
}

// SecurityCheckMiddleware 请求体大小和 HTTP 方法校验
func SecurityCheckMiddleware(security config.SecurityConfig) app.HandlerFunc {
	allowed := make(map[string]bool, len(security.AllowedMethods))
	for _, m := range security.AllowedMethods {
		allowed[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		if security.MaxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > security.MaxBodySize {
			securityResponse(c, ctx, "request body exceeds max size", 413)
			return
		}

		if len(allowed) > 0 && !allowed[string(ctx.Method())] {
			securityResponse(c, ctx, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

// 安全响应统一处理
func securityResponse(c context.Context, ctx *app.RequestContext, msg string, status int) {
	hlog.CtxWarnf(c, "SecurityAlert[%d] %s %s: %s", status, ctx.Method(), ctx.Path(), msg)
	ctx.AbortWithMsg(msg, status)
}
