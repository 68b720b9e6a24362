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

	"github.com/Dosada05/seqel-esports/config"
	"github.com/Dosada05/seqel-esports/db"
	"github.com/Dosada05/seqel-esports/handlers"
	"github.com/Dosada05/seqel-esports/repositories"
	api "github.com/Dosada05/seqel-esports/routes"
	"github.com/Dosada05/seqel-esports/services"
	"github.com/Dosada05/seqel-esports/storage"
	"github.com/Dosada05/seqel-esports/views"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout)
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

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := db.Migrate(startupCtx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Sponsor images go to R2 when it is configured, otherwise to the
	// SponsorPath directory.
	var sponsorStore storage.FileUploader
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		sponsorStore, err = storage.NewCloudflareR2Uploader(startupCtx, r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	renderer, err := views.New(logger)
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	txManager := repositories.NewTxManager(dbConn, logger)
	schoolRepo := repositories.NewPostgresSchoolRepository(dbConn)
	studentRepo := repositories.NewPostgresStudentRepository(dbConn)
	pointsRepo := repositories.NewPostgresPointsRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	settingRepo := repositories.NewPostgresSettingRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	logger.Info("repositories initialized")

	schoolService := services.NewSchoolService(schoolRepo, txManager, logger)
	studentService := services.NewStudentService(studentRepo, schoolRepo, txManager, logger)
	pointsService := services.NewPointsService(pointsRepo, logger)
	gameService := services.NewGameService(gameRepo, eventRepo, txManager, logger)
	scheduleService := services.NewScheduleService(roundRepo, eventRepo, txManager)
	settingService := services.NewSettingService(settingRepo)
	matchService := services.NewMatchService(
		matchRepo,
		gameRepo,
		eventRepo,
		roundRepo,
		settingRepo,
		pointsService,
		txManager,
		cfg.TimeLapBonusGames,
		logger,
	)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, studentRepo, gameRepo)
	importService := services.NewImportService(studentRepo, schoolRepo, txManager, logger)
	dashboardService := services.NewDashboardService(statsRepo)
	seedService := services.NewSeedService(pointsRepo, gameRepo, eventRepo, roundRepo, txManager, logger)
	maintenanceService := services.NewMaintenanceService(matchRepo, pointsRepo, studentRepo, schoolRepo, txManager, logger)
	sponsorService := services.NewSponsorService(sponsorStore, settingRepo, logger)
	logger.Info("services initialized")

	if cfg.SeedOnStart {
		result, err := seedService.Seed(startupCtx)
		if err != nil {
			logger.Error("failed to seed defaults", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("defaults seeded",
			slog.Int("points", result.Points),
			slog.Int("games", result.Games),
			slog.Int("rounds", result.Rounds))
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Home:        handlers.Home(renderer),
		Health:      handlers.NewHealthHandler(dbConn),
		Admin:       handlers.NewAdminHandler(dashboardService, seedService, renderer),
		School:      handlers.NewSchoolHandler(schoolService, renderer),
		Student:     handlers.NewStudentHandler(studentService, renderer),
		Points:      handlers.NewPointsHandler(pointsService, gameService, renderer),
		Game:        handlers.NewGameHandler(gameService, renderer),
		Schedule:    handlers.NewScheduleHandler(scheduleService, gameService, renderer),
		Settings:    handlers.NewSettingsHandler(settingService, renderer),
		Import:      handlers.NewImportHandler(importService, renderer),
		Maintenance: handlers.NewMaintenanceHandler(maintenanceService, renderer),
		Sponsor:     handlers.NewSponsorHandler(sponsorService, renderer),
		Match:       handlers.NewMatchHandler(matchService, gameService, scheduleService, renderer),
		Board:       handlers.NewBoardHandler(leaderboardService, gameService, sponsorService, renderer),
	}, cfg.CORSOrigins, logger)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

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
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
