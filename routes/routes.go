package routes

import (
	"context"
	"net/http"

	"story-cms/handlers"
	"story-cms/helper"
	"story-cms/middleware"
	"story-cms/models"
	"story-cms/observability"
	"story-cms/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Post       *handlers.PostHandler
	Moderation *handlers.ModerationHandler
	Story      *handlers.StoryHandler
	Public     *handlers.PublicHandler
	Admin      *handlers.AdminHandler
	Upload     *handlers.UploadHandler
}

type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Nil trusts none.
	TrustedProxies []string
	// UploadDir is served under /uploads when set.
	UploadDir           string
	SubmitRatePerMinute int
	// Health reports backend readiness for /health. Nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(h Handlers, authService services.AuthService, httpHelper *helper.HTTPHelper, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(observability.ServiceName))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	requireAuth := middleware.AuthMiddleware(authService, httpHelper)
	requireAdmin := middleware.RequireRole(httpHelper, models.RoleAdmin)
	requireAuthor := middleware.RequireRole(httpHelper, models.RoleWriter, models.RoleAdmin)
	submitLimiter := middleware.NewIPRateLimiter(opts.SubmitRatePerMinute)

	v1 := router.Group("/api/v1")
	{
		// Public blog
		public := v1.Group("/public")
		{
			public.GET("/posts", h.Public.ListPosts)
			public.GET("/posts/:slug", h.Public.GetPost)
			public.GET("/posts/:slug/related", h.Public.Related)
			public.GET("/categories", h.Public.Categories)
		}

		v1.POST("/stories/submit", middleware.RateLimit(submitLimiter, httpHelper), h.Story.Submit)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", requireAuth, h.Auth.Logout)
		}

		protected := v1.Group("/")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", h.Auth.GetProfile)

			posts := protected.Group("/posts")
			{
				posts.POST("", requireAuthor, h.Post.CreatePost)
				posts.GET("", requireAuthor, h.Post.GetPosts)
				posts.GET("/:id", requireAuthor, h.Post.GetPost)
				posts.PUT("/:id", requireAuthor, h.Post.UpdatePost)

				posts.PUT("/:id/approve", requireAdmin, h.Moderation.Approve)
				posts.PUT("/:id/reject", requireAdmin, h.Moderation.Reject)
				posts.DELETE("/:id", requireAdmin, h.Post.DeletePost)
				posts.DELETE("/direct-delete/:id", requireAdmin, h.Post.DirectDelete)
			}

			protected.POST("/uploads/images", requireAuthor, h.Upload.UploadImage)

			admin := protected.Group("/admin")
			admin.Use(requireAdmin)
			{
				admin.GET("/stats", h.Admin.Stats)
				admin.GET("/posts/pending", h.Moderation.ListPending)
				admin.DELETE("/posts/:id", h.Moderation.Delete)

				admin.GET("/users", h.Admin.ListUsers)
				admin.POST("/users", h.Admin.CreateUser)
				admin.PUT("/users/:id/role", h.Admin.UpdateRole)
				admin.DELETE("/users/:id", h.Admin.DeleteUser)
			}
		}
	}

	return router
}
