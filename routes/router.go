package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/controllers"
	"github.com/cppla/rankbbs/middleware"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
// db and hub are optional; without them page views are not recorded and /ws is not served.
func SetupRouter(s *store.Store, cfg config.AppConfig, db *gorm.DB, hub *utils.Hub) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Access log goes to its own rolling file, apart from the application log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		utils.S().Warnf("access log disabled: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	if hub != nil {
		r.GET("/ws", func(ctx *gin.Context) {
			hub.ServeWs(ctx.Writer, ctx.Request)
		})
	}

	postController := controllers.NewPostController(s, hub, cfg)
	commentController := controllers.NewCommentController(s, hub, cfg)
	authController := controllers.NewAuthController(s, cfg)
	statsController := controllers.NewStatsController(s, db)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")

	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/comments/top", postController.TopComments)
	api.GET("/comments/:id/branch", commentController.ExpandBranch)
	api.GET("/stats", statsController.GetStats)

	api.POST("/users", limiter.Middleware(), authController.Register)

	authGroup := api.Group("/auth")
	authGroup.Use(limiter.Middleware())
	authGroup.POST("/token", authController.IssueToken)
	if cfg.AuthEnabled {
		authGroup.POST("/logout", middleware.AuthRequired(cfg.JWTSecret), authController.Logout)
		authGroup.GET("/me", middleware.AuthRequired(cfg.JWTSecret), authController.Me)
	}

	writes := api.Group("")
	writes.Use(limiter.Middleware())
	if cfg.AuthEnabled {
		writes.Use(middleware.AuthRequired(cfg.JWTSecret))
	}
	writes.POST("/posts", postController.CreatePost)
	writes.POST("/posts/:id/votes", postController.VotePost)
	writes.POST("/comments", commentController.CreateComment)
	writes.POST("/comments/:id/votes", commentController.VoteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "route not found")
	})

	return r
}
