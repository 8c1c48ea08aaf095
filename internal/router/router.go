package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/tankapool/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret, cookieName string) *gin.Engine {
	r := gin.Default()

	// 会话中间件只负责下发匿名标识，不承载登录态
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions(cookieName, store))

	api := handler.NewAPI(gdb)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	group := r.Group("/api")
	group.Use(handler.EnsureSession())
	{
		group.POST("/exchange", api.Exchange)
		group.GET("/pool_count", api.GetPoolCount)
		group.GET("/stats", api.GetStats)
		group.GET("/categories", api.GetCategories)
		group.GET("/categories/:name/tankas", api.GetCategoryTankas)
		group.GET("/user/stats", api.GetUserStats)
	}

	return r
}
