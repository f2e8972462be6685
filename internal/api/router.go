package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/handler"
	"github.com/jengzang/motion-profile-go/internal/middleware"
	"github.com/jengzang/motion-profile-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(ctx context.Context, cfg *config.Config, svc *service.ProfileService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	r.MaxMultipartMemory = 8 << 20

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Motion profile API is running",
		})
	})

	profiles := handler.NewProfileHandler(svc, cfg.Thresholds, cfg.MaxUploadMB)
	runs := handler.NewRunHandler(svc)
	chartsHandler := handler.NewChartHandler(svc)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(ctx, cfg.RateLimit, time.Minute))
	{
		api.POST("/profiles", middleware.Auth(cfg.JWTSecret), profiles.CreateProfile)

		api.GET("/runs", runs.ListRuns)
		api.GET("/runs/:id", runs.GetRun)
		api.GET("/runs/:id/days", runs.GetRunDays)
		api.GET("/runs/:id/days/:day", runs.GetDay)
		api.GET("/runs/:id/days/:day/chart", chartsHandler.DayChart)

		api.GET("/days", runs.ListDays)
	}

	return r
}
