package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/compliment-api/config"
	"github.com/d60-Lab/compliment-api/internal/api"
	"github.com/d60-Lab/compliment-api/internal/api/handler"
	"github.com/d60-Lab/compliment-api/internal/api/middleware"
	"github.com/d60-Lab/compliment-api/internal/cache"
	"github.com/d60-Lab/compliment-api/internal/repository"
	"github.com/d60-Lab/compliment-api/internal/sampler"
	"github.com/d60-Lab/compliment-api/internal/service"
	rediscache "github.com/d60-Lab/compliment-api/pkg/cache"
	"github.com/d60-Lab/compliment-api/pkg/database"
	"github.com/d60-Lab/compliment-api/pkg/logger"
	"github.com/d60-Lab/compliment-api/pkg/token"
	"github.com/d60-Lab/compliment-api/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

//	@title			Compliment API
//	@version		1.0
//	@description	Keep compliments for the people you care about and draw them back at random, oldest-shown first.

//	@BasePath	/api/v1

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Bearer <token> issued by /auth/callback
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Redis 只做归属缓存，不可用时直接查库
	var rdb *redis.Client
	if client, err := rediscache.NewRedisClient(ctx, cfg.Redis); err != nil {
		logger.Warn("redis unavailable, owner cache disabled", zap.Error(err))
	} else {
		rdb = client
		defer rdb.Close()
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)

	receivers := service.NewReceiverService(
		repository.NewReceiverRepository(db),
		cache.NewOwnerCache(rdb, cfg.Redis.OwnerTTL),
	)
	compliments := service.NewComplimentService(
		receivers,
		repository.NewComplimentRepository(db),
		sampler.New(nil),
	)
	auth := service.NewAuthService(cfg.OAuth, repository.NewUserRepository(db), tokens)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	h := handler.NewHandler(auth, receivers, compliments, cfg.Server.Mode == "release")
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, h, tokens, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
