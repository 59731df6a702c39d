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

	"github.com/getsentry/sentry-go"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"fileshare_backend/internal/app/di"
	"fileshare_backend/internal/app/router"
	authadapters "fileshare_backend/internal/feature/auth/adapters"
	authhandler "fileshare_backend/internal/feature/auth/transport/handler"
	authusecase "fileshare_backend/internal/feature/auth/usecase"
	uploadadapters "fileshare_backend/internal/feature/upload/adapters"
	uploadhandler "fileshare_backend/internal/feature/upload/transport/handler"
	uploadusecase "fileshare_backend/internal/feature/upload/usecase"
	"fileshare_backend/internal/platform/config"
	infradb "fileshare_backend/internal/platform/db"
	platformhandler "fileshare_backend/internal/platform/http/handler"
	jwtmw "fileshare_backend/internal/platform/jwt"
	"fileshare_backend/internal/platform/logger"
	infraredis "fileshare_backend/internal/platform/redis"
	"fileshare_backend/internal/platform/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "path to an optional .env file")
	migrate := pflag.Bool("migrate", false, "apply database migrations before serving")
	pflag.Parse()

	// config
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// logger
	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Sentry
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			zap.L().Error("sentry init failed", zap.Error(err))
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// migrations
	if *migrate {
		if err := infradb.Migrate(cfg.Database.URL); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
		zap.L().Info("migrations applied")
	}

	// db
	db, err := infradb.OpenDB(cfg.Database)
	if err != nil {
		zap.L().Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("database handle unavailable", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()

	// storage
	presigner, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		zap.L().Fatal("storage init failed", zap.Error(err))
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
			zap.L().Warn("Redis unavailable. Running without shared cooldown.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					zap.L().Error("Failed to close Redis client", zap.Error(err))
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	verificationRepo := authadapters.NewVerificationGorm(db)
	uploadRepo := uploadadapters.NewUploadGorm(db)

	// Collaborators
	tokens := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.TTL)
	cooldown, closeCooldown := di.NewCooldown(rdb)
	defer closeCooldown()
	mailer := di.NewMailer(cfg.Mail)
	notifier := di.NewNotifier(cfg)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, verificationRepo, tokens, mailer, notifier, cooldown, cfg.VerificationCooldown)
	uploadUC := uploadusecase.NewUploadUsecase(uploadRepo, presigner, notifier, cfg.AdminEmails)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	uploadH := uploadhandler.NewUploadHandler(uploadUC)
	healthH := platformhandler.NewHealthHandler(sqlDB)

	if cfg.PublicUploadListing {
		zap.L().Warn("GET /api/uploads is public. Set PUBLIC_UPLOAD_LISTING=false to require a token.")
	}

	// ルータ生成
	r := router.NewRouter(authH, uploadH, healthH, jwtmw.AuthRequired(tokens, userRepo), router.Options{
		CORSOrigins:         cfg.CORSOrigins,
		PublicUploadListing: cfg.PublicUploadListing,
		AuthRatePerMinute:   cfg.AuthRatePerMinute,
		Sentry:              sentryEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown error", zap.Error(err))
	}
	notifier.Wait()

	zap.L().Info("server stopped")
}
