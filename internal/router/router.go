package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dailydev/internal/config"
	"github.com/dailydev/internal/handler"
	"github.com/dailydev/internal/metrics"
	"github.com/dailydev/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter 配置 Gin 引擎、公共中间件和全部路由
func SetupRouter(api *handler.API, cfg config.AppConfig, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger, cfg.IsDevelopment()),
		metrics.Instrument(),
	)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/api/health", api.HealthCheck)
	if cfg.StaticDir == "" {
		r.GET("/", api.OptionalAuth(), api.Index)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
	apiGroup := r.Group("/api", limiter.Handler())
	{
		apiGroup.GET("", api.OptionalAuth(), api.Index)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", api.Register)
			authGroup.POST("/login", api.Login)

			protected := authGroup.Group("", api.AuthRequired())
			protected.GET("/me", api.Me)
			protected.PUT("/profile", api.UpdateAuthProfile)
			protected.POST("/logout", api.Logout)
		}

		users := apiGroup.Group("/users", api.AuthRequired())
		{
			users.GET("/profile", api.GetProfile)
			users.PUT("/profile", api.UpdateProfile)
			users.PUT("/password", api.ChangePassword)
			users.DELETE("/account", api.DeleteAccount)
			users.GET("/stats", api.GetUserStats)
		}

		journal := apiGroup.Group("/journal", api.AuthRequired())
		{
			journal.GET("", api.ListJournal)
			journal.POST("", api.CreateJournalEntry)
			journal.GET("/stats/summary", api.JournalStats)
			journal.GET("/:id", api.GetJournalEntry)
			journal.PUT("/:id", api.UpdateJournalEntry)
			journal.DELETE("/:id", api.DeleteJournalEntry)
		}

		tasks := apiGroup.Group("/tasks", api.AuthRequired())
		{
			tasks.GET("", api.ListTasks)
			tasks.POST("", api.CreateTask)
			tasks.GET("/stats/summary", api.TaskStats)
			tasks.GET("/:id", api.GetTask)
			tasks.PUT("/:id", api.UpdateTask)
			tasks.PATCH("/:id/toggle", api.ToggleTask)
			tasks.DELETE("/:id", api.DeleteTask)
		}

		courses := apiGroup.Group("/courses", api.AuthRequired())
		{
			courses.GET("", api.ListCourses)
			courses.POST("", api.CreateCourse)
			courses.GET("/stats/summary", api.CourseStats)
			courses.GET("/:id", api.GetCourse)
			courses.PUT("/:id", api.UpdateCourse)
			courses.PATCH("/:id/progress", api.UpdateCourseProgress)
			courses.DELETE("/:id", api.DeleteCourse)
		}
	}

	r.NoRoute(noRoute(cfg.StaticDir))

	return r
}

// noRoute API 路径返回 JSON 404；配置了 staticDir 时其余路径交给前端单页应用
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticDir == "" || strings.HasPrefix(path, "/api") || c.Request.Method != http.MethodGet {
			handler.NotFound(c)
			return
		}

		if file, ok := staticFile(staticDir, path); ok {
			c.File(file)
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			handler.NotFound(c)
			return
		}
		c.File(index)
	}
}

func staticFile(root, requestPath string) (string, bool) {
	cleaned := filepath.Clean("/" + requestPath)
	if cleaned == "/" {
		return "", false
	}
	candidate := filepath.Join(root, filepath.FromSlash(cleaned))
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	return candidate, true
}
