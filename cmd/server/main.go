package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tankapool/internal/config"
	"github.com/tankapool/internal/db"
	"github.com/tankapool/internal/logger"
	"github.com/tankapool/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.Server.GinMode)

	// 容器环境下数据库可能晚于应用就绪，先等它可用
	dsn := cfg.Database.DSN()
	if err := db.WaitReady(cfg.Database.Driver, dsn, cfg.Database.StartupWait); err != nil {
		zlog.Fatal("database not reachable", zap.Error(err))
	}

	if err := db.Init(cfg.Database.Driver, dsn); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := db.ConfigurePool(db.DB, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime); err != nil {
		zlog.Fatal("failed to configure connection pool", zap.Error(err))
	}
	zlog.Info("database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)

	r := router.SetupRouter(db.DB, cfg.Session.Secret, cfg.Session.CookieName)

	zlog.Info("starting tanka exchange server", zap.String("addr", cfg.Server.ListenAddr))
	if err := r.Run(cfg.Server.ListenAddr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
