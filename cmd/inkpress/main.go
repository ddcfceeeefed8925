package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hibiken/asynq"

	"github.com/inkpress/inkpress/internal/accounts"
	"github.com/inkpress/inkpress/internal/app"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/categories"
	"github.com/inkpress/inkpress/internal/platform/cache"
	"github.com/inkpress/inkpress/internal/platform/db"
	"github.com/inkpress/inkpress/internal/posts"
	"github.com/inkpress/inkpress/internal/rpc"
	"github.com/inkpress/inkpress/internal/token"
	"github.com/inkpress/inkpress/internal/uploads"
	"github.com/inkpress/inkpress/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	codec := token.NewCodec(cfg.TokenSecret)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(logger, accountsRepo, codec, jobClient)

	categoriesRepo := categories.NewRepository(pool)
	categoriesService := categories.NewService(categoriesRepo)

	postsRepo := posts.NewRepository(pool)
	postsService := posts.NewService(postsRepo, accountsRepo, categoriesService)

	resolver := auth.NewResolver(codec, accountsRepo)

	dispatcher := rpc.NewDispatcher(logger, resolver)
	rpc.RegisterAccounts(dispatcher, accountsService)
	rpc.RegisterPosts(dispatcher, postsService)
	rpc.RegisterCategories(dispatcher, categoriesService)

	var uploadsHandler *uploads.Handler
	if cfg.UploadBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("load aws config", slog.Any("error", err))
			os.Exit(1)
		}
		uploadsHandler = uploads.NewHandler(logger, s3.NewFromConfig(awsCfg), cfg.UploadBucket, resolver)
	} else {
		logger.Warn("upload bucket not configured, uploads disabled")
	}

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Dispatcher:     dispatcher,
		UploadsHandler: uploadsHandler,
		Pool:           pool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
