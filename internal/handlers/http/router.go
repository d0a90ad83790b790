package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/middleware"
)

// HealthCheck verifica uma dependência externa
type HealthCheck func(ctx context.Context) error

// RouterConfig reúne os handlers e middlewares da API
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins string

	Users    *UserHandler
	Posts    *PostHandler
	Realtime *RealtimeHandler

	Auth *middleware.AuthMiddleware
	I18n *middleware.I18nMiddleware

	// Metrics e MetricsHandler são opcionais
	Metrics        middleware.RequestObserver
	MetricsHandler http.Handler

	Health map[string]HealthCheck
	Logger ports.Logger
}

// NewRouter monta o gin.Engine com todas as rotas /api/v1
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.BaseURL(cfg.BaseURL))
	router.Use(cfg.I18n.DetectLanguage())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", healthHandler(cfg.Env, cfg.Health))
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	required := cfg.Auth.Required()
	optional := cfg.Auth.Optional()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/ws", required, cfg.Realtime.Connect)

		users := v1.Group("/users")
		{
			users.POST("/signup", cfg.Users.SignUp)
			users.POST("/login", cfg.Users.Login)
			users.POST("/login/refresh", cfg.Users.Refresh)
			users.POST("/forgot-password", cfg.Users.ForgotPassword)
			users.GET("/profile/:id", cfg.Users.GetUser)

			private := users.Group("", required)
			private.POST("/logout", cfg.Users.Logout)
			private.GET("/verify", cfg.Users.RequestCode)
			private.POST("/verify", cfg.Users.ConfirmCode)
			private.PUT("/user-update", cfg.Users.UpdateProfile)
			private.PATCH("/user-update", cfg.Users.UpdateProfile)
			private.PUT("/user-photo-update", cfg.Users.UpdatePhoto)
			private.PATCH("/user-photo-update", cfg.Users.UpdatePhoto)
			private.PUT("/reset-password", cfg.Users.ResetPassword)
			private.PATCH("/reset-password", cfg.Users.ResetPassword)
			private.GET("/me", cfg.Users.Me)
			private.DELETE("/profile/:id", cfg.Users.DeleteUser)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("/list", optional, cfg.Posts.ListPosts)
			posts.GET("/:id", optional, cfg.Posts.GetPost)
			posts.GET("/:id/comments", optional, cfg.Posts.ListComments)
			posts.GET("/:id/likes", cfg.Posts.ListLikes)

			private := posts.Group("", required)
			private.GET("/list/me", cfg.Posts.ListMyPosts)
			private.GET("/saved", cfg.Posts.ListSaved)
			private.POST("/create", cfg.Posts.CreatePost)
			private.PUT("/:id", cfg.Posts.UpdatePost)
			private.PATCH("/:id", cfg.Posts.UpdatePost)
			private.DELETE("/:id", cfg.Posts.DeletePost)
			private.POST("/:id/comments/create", cfg.Posts.CreateComment)
			private.POST("/:id/likes/like", cfg.Posts.TogglePostLike)
			private.POST("/:id/save", cfg.Posts.ToggleSave)
			private.POST("/comments/:id/like", cfg.Posts.ToggleCommentLike)
			private.DELETE("/comments/:id", cfg.Posts.DeleteComment)
		}
	}

	return router
}

func healthHandler(env string, checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status": state,
			"env":    env,
			"checks": results,
		})
	}
}
