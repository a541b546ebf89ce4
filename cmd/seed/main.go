// seed 生成演示用户和文章，方便本地调试
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"dofe-blog/pkg/common/config"
	apperrors "dofe-blog/pkg/common/errors"
	postmodel "dofe-blog/pkg/core/post/model"
	postdao "dofe-blog/pkg/core/post/repository/dao/impl"
	postservice "dofe-blog/pkg/core/post/service"
	"dofe-blog/pkg/core/session"
	usermodel "dofe-blog/pkg/core/user/model"
	userdao "dofe-blog/pkg/core/user/repository/dao/impl"
	userservice "dofe-blog/pkg/core/user/service"
)

func main() {
	userCount := flag.Int("users", 3, "number of users to create")
	postsPerUser := flag.Int("posts", 5, "posts per user")
	password := flag.String("password", "Passw0rd!", "password for every seeded user")
	seed := flag.Int64("seed", 0, "faker seed, 0 picks a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
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

	users := userservice.NewUserService(userdao.NewGormUserRepository(db), userservice.NewBcryptHasher(cfg.Session.HashCost))
	posts := postservice.NewPostService(postdao.NewGormPostRepository(db))
	faker := gofakeit.New(*seed)
	ctx := context.Background()

	for i := 0; i < *userCount; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(faker.FirstName()), faker.Number(10, 999))
		user, err := users.Register(ctx, username, faker.Email(), *password)
		if errors.Is(err, apperrors.ErrDuplicateCredential) {
			hlog.Infof("skip existing user %s", username)
			continue
		}
		if err != nil {
			hlog.Fatalf("register %s: %v", username, err)
		}

		userID := user.ID
		author := &session.Session{ID: "seed", UserID: &userID}
		for j := 0; j < *postsPerUser; j++ {
			title := truncate(faker.Sentence(6), postmodel.MaxTitleLength)
			if _, err := posts.Create(ctx, author, title, faker.Paragraph(2, 4, 12, "\n\n")); err != nil {
				hlog.Fatalf("create post for %s: %v", username, err)
			}
		}
		hlog.Infof("seeded %s with %d posts (password %q)", username, *postsPerUser, *password)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
