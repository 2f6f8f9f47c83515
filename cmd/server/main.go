package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/AfopeM/nawalingo/config"
	"github.com/AfopeM/nawalingo/internal/api/handler"
	"github.com/AfopeM/nawalingo/internal/api/middleware"
	"github.com/AfopeM/nawalingo/internal/api/router"
	"github.com/AfopeM/nawalingo/internal/api/validation"
	"github.com/AfopeM/nawalingo/internal/repository"
	"github.com/AfopeM/nawalingo/internal/service"
	"github.com/AfopeM/nawalingo/pkg/database"
	"github.com/AfopeM/nawalingo/pkg/jwt"
	applogger "github.com/AfopeM/nawalingo/pkg/logger"
	"github.com/AfopeM/nawalingo/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config/config.yaml)")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis is optional: without it there is no caching or rate limiting
	var (
		cache   service.Cache
		limiter middleware.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and rate limit", zap.Error(err))
		rdb = nil
	} else {
		cache, limiter = rdb, rdb
	}

	// 5. validation and token verification
	if err := validation.Setup(); err != nil {
		logger.Fatal("init validation", zap.Error(err))
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cache, logger)
	h := handler.NewHandler(svc, cfg.Search, logger)

	// 7. routes
	engine := router.Setup(cfg, h, router.Deps{
		Verifier:    jwtMgr,
		Permissions: svc.Permission,
		Limiter:     limiter,
		Logger:      logger,
	})

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
