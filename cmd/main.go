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

	_ "github.com/lib/pq"

	"github.com/hoopstack/hoops-manager/config"
	"github.com/hoopstack/hoops-manager/db"
	"github.com/hoopstack/hoops-manager/handlers"
	"github.com/hoopstack/hoops-manager/repositories"
	"github.com/hoopstack/hoops-manager/routes"
	"github.com/hoopstack/hoops-manager/services"
	"github.com/hoopstack/hoops-manager/storage"
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

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Workbook archiving is optional; without R2 settings imports still work.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, workbook archiving disabled")
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	accessRepo := repositories.NewPostgresAccessRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	scoreRepo := repositories.NewPostgresMatchScoreRepository(dbConn)
	statsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)
	reportingRepo := repositories.NewPostgresReportingRepository(dbConn)

	aggregator := services.NewStatsAggregator(teamRepo, matchRepo)
	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(
		dbConn, tournamentRepo, teamRepo, playerRepo, matchRepo, scoreRepo, statsRepo, accessRepo, logger,
	)
	teamService := services.NewTeamService(
		dbConn, teamRepo, playerRepo, matchRepo, scoreRepo, statsRepo, tournamentRepo, accessRepo, aggregator,
	)
	playerService := services.NewPlayerService(
		dbConn, playerRepo, teamRepo, statsRepo, tournamentRepo, accessRepo,
	)
	matchService := services.NewMatchService(
		dbConn, matchRepo, scoreRepo, statsRepo, teamRepo, tournamentRepo, accessRepo, aggregator,
	)
	playerStatsService := services.NewPlayerStatsService(
		statsRepo, matchRepo, playerRepo, teamRepo, tournamentRepo, accessRepo,
	)
	accessService := services.NewAccessService(accessRepo, userRepo, tournamentRepo, logger)
	importService := services.NewImportService(
		dbConn, tournamentRepo, teamRepo, playerRepo, matchRepo, scoreRepo, statsRepo, aggregator, uploader, logger,
	)
	reportingService := services.NewReportingService(reportingRepo, tournamentRepo, accessRepo)

	router := routes.SetupRoutes(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Team:        handlers.NewTeamHandler(teamService),
		Player:      handlers.NewPlayerHandler(playerService),
		Match:       handlers.NewMatchHandler(matchService),
		PlayerStats: handlers.NewPlayerStatsHandler(playerStatsService),
		Access:      handlers.NewAccessHandler(accessService),
		Import:      handlers.NewImportHandler(importService),
		Reporting:   handlers.NewReportingHandler(reportingService),
	}, cfg.JWTSecretKey)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
