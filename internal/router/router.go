package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewEngine 构建 gin 引擎并注册所有模块路由。
func NewEngine(cycleHandler *CycleHandler, metricsHandler http.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := engine.Group("/api/v1")
	cycleHandler.RegisterRoutes(api)

	return engine
}
