package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/swaggo/swag" // 导入 swag

	"personalization_api/config"
	"personalization_api/db"
	_ "personalization_api/docs" // 导入 swagger 文档
	"personalization_api/handlers"
	"personalization_api/logger"
	"personalization_api/repository"
	"personalization_api/scheduler"
	"personalization_api/services"
)

func main() {
	cfg := config.Load()

	// 初始化日志系统
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("日志系统初始化成功", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	if err := db.InitMySQLWithConfig(cfg); err != nil {
		logger.Error("初始化MySQL失败", "error", err)
		os.Exit(1)
	}
	logger.Info("MySQL连接成功",
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns,
		"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

	// 进程级实例在启动时显式构造并注入，不使用全局单例
	cache := services.NewRecommendationCache(time.Duration(cfg.Cache.TTLSec) * time.Second)

	var analytics services.AnalyticsRecorder
	switch cfg.Analytics.Driver {
	case "mysql":
		analytics = repository.NewAnalyticsRepo()
	default:
		analytics = repository.NewMemoryAnalytics()
	}
	logger.Info("统计存储已初始化", "driver", cfg.Analytics.Driver)

	store := repository.NewPostRepo()
	settings := repository.NewSettingsRepo()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	keys := services.NewAPIKeyService(ctx, cfg.API.Key, settings, cache)
	cancel()

	recService := services.NewRecommendationService(store, analytics, cache,
		cfg.Recommend.DefaultPerPage, cfg.Recommend.MaxPerPage)
	export := services.NewExportService(analytics, cfg.Analytics.ExportURL, cfg.Analytics.ExportRetryMax)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)

	handlers.RegisterRoutes(r, &handlers.API{
		Recommendations: recService,
		Analytics:       services.NewAnalyticsService(analytics),
		Keys:            keys,
		Store:           store,
	})

	// 启动周期任务：缓存清理、统计上报
	scheduler.Start(cfg, cache, export)

	logger.Info("服务器启动", "address", cfg.Server.Addr, "cache_ttl_sec", cfg.Cache.TTLSec)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, r))
}
