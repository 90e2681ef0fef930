package main

import (
	"context"

	"github.com/bloghub/backend/internal/config"
	"github.com/bloghub/backend/internal/db"
	"github.com/bloghub/backend/internal/handler"
	"github.com/bloghub/backend/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := buildLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}

	authSvc, err := service.NewAuthService(store, store, cfg.Auth, log)
	if err != nil {
		log.Fatal("auth service init failed", zap.Error(err))
	}
	blogSvc := service.NewBlogService(store, store, log)

	router := handler.NewRouter(log, authSvc, blogSvc)

	log.Info("server starting", zap.String("addr", cfg.HTTP.Addr))
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.DevMode == "true" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	return zapCfg.Build()
}
