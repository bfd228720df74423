// Package app wires repositories, services and handlers into one router.
package app

import (
	"context"
	"time"

	"story-cms/cache"
	"story-cms/config"
	"story-cms/handlers"
	"story-cms/helper"
	"story-cms/repositories"
	"story-cms/routes"
	"story-cms/services"
	"story-cms/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const postCacheTTL = 5 * time.Minute

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Redis may be nil; caching is then disabled and revocation stays in memory.
	Redis  *redis.Client
	Store  storage.ObjectStore
	Logger *zap.Logger
	// Remote replaces the in-process direct delete endpoint when set.
	Remote services.RemoteDeleter
}

type App struct {
	Router     *gin.Engine
	Auth       services.AuthService
	Posts      services.PostService
	Moderation services.ModerationService
	Users      services.UserService
}

func New(d Deps) *App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	httpHelper := helper.NewHTTPHelper(log)

	userRepo := repositories.NewUserRepository(d.DB)
	postRepo := repositories.NewPostRepository(d.DB)

	postCache := cache.NewPostCache(d.Redis, postCacheTTL, log)
	revoker := cache.NewTokenRevoker(d.Redis)

	authService := services.NewAuthService(userRepo, revoker, d.Config.JWT(), log)
	postService := services.NewPostService(postRepo, postCache, log)
	remote := d.Remote
	if remote == nil {
		remote = services.LocalDirectDeleter{Posts: postService}
	}
	moderationService := services.NewModerationService(postRepo, remote, postCache, log)
	imageService := services.NewImageService(d.Store, log)
	submissionService := services.NewSubmissionService(postRepo, userRepo, imageService, log)
	blogService := services.NewBlogService(postRepo, postCache, log)
	dashboardService := services.NewDashboardService(postRepo, userRepo)
	userService := services.NewUserService(userRepo, postRepo, postCache, log)

	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, httpHelper),
		Post:       handlers.NewPostHandler(postService, httpHelper),
		Moderation: handlers.NewModerationHandler(moderationService, httpHelper),
		Story:      handlers.NewStoryHandler(submissionService, httpHelper),
		Public:     handlers.NewPublicHandler(blogService, httpHelper),
		Admin:      handlers.NewAdminHandler(dashboardService, userService, httpHelper),
		Upload:     handlers.NewUploadHandler(imageService, httpHelper),
	}

	opts := routes.Options{
		Logger:              log,
		AllowedOrigins:      d.Config.Origins(),
		TrustedProxies:      d.Config.Proxies(),
		SubmitRatePerMinute: d.Config.SubmitRatePerMinute,
		Health:              pingDB(d.DB),
	}
	if local, ok := d.Store.(*storage.LocalStore); ok {
		opts.UploadDir = local.Root
	}

	return &App{
		Router:     routes.NewRouter(h, authService, httpHelper, opts),
		Auth:       authService,
		Posts:      postService,
		Moderation: moderationService,
		Users:      userService,
	}
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
