package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/career-day/config"
	"github.com/Dosada05/career-day/db"
	"github.com/Dosada05/career-day/handlers"
	"github.com/Dosada05/career-day/live"
	"github.com/Dosada05/career-day/metrics"
	"github.com/Dosada05/career-day/middleware"
	"github.com/Dosada05/career-day/repositories"
	api "github.com/Dosada05/career-day/routes"
	"github.com/Dosada05/career-day/services"
	"github.com/Dosada05/career-day/storage"
	"github.com/Dosada05/career-day/utils"
)

//go:generate swag init -g cmd/main.go -o docs --parseDependency

// @title Career Day API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	rateLimitCleanupInterval = time.Minute
	shutdownTimeout          = 15 * time.Second
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, db.DefaultPool, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	version, err := db.Migrate(dbConn)
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema is up to date", slog.Uint64("version", uint64(version)))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	m := metrics.New()

	// Хранилище резюме: Cloudflare R2 или локальный диск
	var uploader storage.FileUploader
	uploadsDir := ""
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Options{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader, err = storage.NewLocalDiskUploader(cfg.UploadDir, "/uploads")
		if err != nil {
			logger.Error("failed to initialize local upload dir", slog.Any("error", err))
			os.Exit(1)
		}
		uploadsDir = cfg.UploadDir
		logger.Info("Local disk uploader initialized", slog.String("dir", cfg.UploadDir))
	}
	resumeStore := storage.NewUploadStore(uploader, "resumes", storage.DefaultResumeExtensions, cfg.MaxUploadSize)

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	progressRepo := repositories.NewPostgresProgressRepository(dbConn)
	applicationRepo := repositories.NewPostgresApplicationRepository(dbConn)
	prizeRepo := repositories.NewPostgresPrizeRepository(dbConn)
	claimRepo := repositories.NewPostgresClaimRepository(dbConn)
	questionRepo := repositories.NewPostgresQuestionRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	tokens := utils.NewTokenIssuer(cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	ledger := services.NewLedger(progressRepo)

	authService := services.NewAuthService(dbConn, userRepo, progressRepo, tokens, logger)
	milestoneService := services.NewMilestoneService(dbConn, ledger, applicationRepo, questionRepo, resumeStore, m, logger)
	claimService := services.NewClaimService(dbConn, prizeRepo, progressRepo, claimRepo, hub, m, logger)
	adminService := services.NewAdminService(
		userRepo,
		progressRepo,
		applicationRepo,
		prizeRepo,
		questionRepo,
		settingsRepo,
		hub,
		resumeStore.PublicURL,
		logger,
	)
	logger.Info("Services initialized")

	if cfg.SeedOnStart {
		seeder := services.NewSeeder(userRepo, questionRepo, settingsRepo, logger)
		if err := seeder.Run(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("failed to seed initial data", slog.Any("error", err))
			os.Exit(1)
		}
	}

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, logger)
	authLimiter.StartCleanup(rateLimitCleanupInterval, ctx.Done())

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		User:      handlers.NewUserHandler(authService, milestoneService, claimService),
		Milestone: handlers.NewMilestoneHandler(milestoneService, cfg.MaxUploadSize),
		Prize:     handlers.NewPrizeHandler(claimService),
		Admin:     handlers.NewAdminHandler(adminService),
		WebSocket: handlers.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, api.Options{
		Resolver:    authService,
		AuthLimiter: authLimiter,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		UploadsDir:  uploadsDir,
		Logger:      logger,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}

	// останавливаем hub и очистку лимитера
	stop()
	logger.Info("application exited")
}
