package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 提供监控系统使用的健康检查端点，同时探测数据库连接。
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "DailyDev API is running",
		"database":  "up",
		"timestamp": formatTime(a.now()),
	})
}

// Index 列出主要端点；带有效令牌时附带当前用户
func (a *API) Index(c *gin.Context) {
	body := gin.H{
		"message": "DailyDev API Server is running!",
		"endpoints": gin.H{
			"health":  "GET /api/health",
			"auth":    "POST /api/auth/register, POST /api/auth/login",
			"users":   "GET/PUT /api/users",
			"journal": "GET/POST /api/journal",
			"tasks":   "GET/POST /api/tasks",
			"courses": "GET/POST /api/courses",
		},
		"timestamp": formatTime(a.now()),
	}
	if user := principal(c); user != nil {
		body["user"] = gin.H{"id": user.ID, "name": user.Name}
	}
	c.JSON(http.StatusOK, body)
}

// NotFound 未匹配的 API 路由统一返回 JSON
func NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "Route not found")
}
