package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"dofe-blog/pkg/common/config"
	postservice "dofe-blog/pkg/core/post/service"
	"dofe-blog/pkg/core/session"
	userservice "dofe-blog/pkg/core/user/service"
	"dofe-blog/pkg/web/handler"
	"dofe-blog/pkg/web/middleware"
	"dofe-blog/pkg/web/view"
)

// Dependencies 路由需要的服务实例，由 main 组装后注入
type Dependencies struct {
	DB       *gorm.DB
	Users    *userservice.UserService
	Posts    *postservice.PostService
	Sessions *session.Manager
}

// RegisterAPIs 注册所有路由
func RegisterAPIs(h *server.Hertz, cfg *config.Config, deps *Dependencies) {
	h.SetHTMLTemplate(view.Templates())

	// 初始化Handler实例
	renderer := handler.NewRenderer(deps.Sessions, handler.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: cfg.Middleware.JWT.ExpireDuration,
	})
	healthHandler := handler.NewHealthCheckHandler(deps.DB, deps.Sessions.Store(), cfg.IsProd())
	userHandler := handler.NewUserHandler(renderer, deps.Users, deps.Sessions)
	postHandler := handler.NewPostHandler(renderer, deps.Posts)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
	)

	// 基础接口组
	h.GET("/health", healthHandler.AdvancedHealthCheck)
	h.GET("/metrics", adaptor.HertzHandler(promhttp.Handler()))

	// 页面，需要解析会话
	pages := h.Group("/", middleware.SessionMiddleware(deps.Sessions, cfg.Session.CookieName))
	{
		pages.GET("/", postHandler.Index)

		pages.GET("/register", userHandler.RegisterForm)
		pages.POST("/register", userHandler.Register)
		pages.GET("/login", userHandler.LoginForm)
		pages.POST("/login", userHandler.Login)
		pages.GET("/logout", userHandler.Logout)

		pages.GET("/create", postHandler.CreateForm)
		pages.POST("/create", postHandler.Create)

		postGroup := pages.Group("/post/:id")
		{
			postGroup.GET("/update", postHandler.UpdateForm)
			postGroup.POST("/update", postHandler.Update)
			postGroup.POST("/delete", postHandler.Delete)
		}
	}
}
