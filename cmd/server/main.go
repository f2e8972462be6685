package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/motion-profile-go/internal/api"
	"github.com/jengzang/motion-profile-go/internal/config"
	"github.com/jengzang/motion-profile-go/internal/database"
	"github.com/jengzang/motion-profile-go/internal/repository"
	"github.com/jengzang/motion-profile-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	if err := cfg.Thresholds.Validate(); err != nil {
		log.Fatal("Invalid thresholds:", err)
	}

	// 初始化数据库
	if err := database.Init(database.Config{DSN: database.MemoryDSN}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	svc := service.NewProfileService(repository.NewRunRepository(db), repository.NewDaySummaryRepository(db), cfg.Workers, cfg.SampleFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, svc)
	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 启动服务器
	log.Printf("Server starting on port %s (auth %v, thresholds %+v)", cfg.Port, cfg.JWTSecret != "", cfg.Thresholds)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server:", err)
	}
}
