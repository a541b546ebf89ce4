package main

import (
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"dofe-blog/pkg/common/config"
	postmodel "dofe-blog/pkg/core/post/model"
	postdao "dofe-blog/pkg/core/post/repository/dao/impl"
	postservice "dofe-blog/pkg/core/post/service"
	"dofe-blog/pkg/core/session"
	usermodel "dofe-blog/pkg/core/user/model"
	userdao "dofe-blog/pkg/core/user/repository/dao/impl"
	userservice "dofe-blog/pkg/core/user/service"
	"dofe-blog/pkg/web/router"
)

func main() {
	// 初始化配置
	cfg, err := config.Load()
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
	hlog.SetLevel(cfg.HlogLevel())

	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		hlog.Fatalf("failed to initialize database: %v", err)
	}
	if err := usermodel.AutoMigrate(db); err != nil {
		hlog.Fatalf("migrate users: %v", err)
	}
	if err := postmodel.AutoMigrate(db); err != nil {
		hlog.Fatalf("migrate posts: %v", err)
	}

	// 会话存储：配置了 Redis 就用 Redis，否则用进程内存
	var store session.Store = session.NewMemoryStore()
	if cfg.Redis.URL != "" {
		client, err := session.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			hlog.Fatalf("redis: %v", err)
		}
		store = session.NewRedisStore(client)
	} else {
		hlog.Warn("REDIS_URL not set, sessions are kept in memory")
	}

	// 注入到各层
	hasher := userservice.NewBcryptHasher(cfg.Session.HashCost)
	users := userservice.NewUserService(userdao.NewGormUserRepository(db), hasher)
	posts := postservice.NewPostService(postdao.NewGormPostRepository(db))

	jwtCfg := cfg.Middleware.JWT
	signer, err := session.NewTokenSigner(jwtCfg.Secret, jwtCfg.SigningMethod, jwtCfg.Issuer, jwtCfg.ExpireDuration)
	if err != nil {
		hlog.Fatalf("session signer: %v", err)
	}
	manager, err := session.NewManager(users, hasher, store, signer, jwtCfg.ExpireDuration)
	if err != nil {
		hlog.Fatalf("session manager: %v", err)
	}

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithExitWaitTime(5*time.Second),
	)

	// 注册路由
	router.RegisterAPIs(h, cfg, &router.Dependencies{
		DB:       db,
		Users:    users,
		Posts:    posts,
		Sessions: manager,
	})

	// 启动服务
	h.Spin()
}
