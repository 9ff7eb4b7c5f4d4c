package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emtsim/internal/cache"
	"emtsim/internal/config"
	"emtsim/internal/exam"
	"emtsim/internal/grading"
	"emtsim/internal/model"
	"emtsim/internal/recognizer"
	"emtsim/internal/repository"
	"emtsim/internal/service"
	"emtsim/internal/transport/rest"
	"emtsim/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title EMT Patient Simulation API
// @version 1.0
// @description Conversational EMT training encounters with deterministic grading
// @host localhost:8080
// @BasePath /api
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()

	// Dialogue AI is optional; the simulation is fully playable without it
	aiCfg := config.DefaultAIConfig()
	logger.Info().
		Str("dialogue_model", aiCfg.Models.Dialogue).
		Str("narrative_model", aiCfg.Models.Narrative).
		Bool("enabled", aiCfg.IsEnabled()).
		Msg("dialogue AI config")

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	logger.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping Redis")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)

	// Initialize repositories
	scenarioRepo := repository.NewScenarioRepo(db)
	examRepo := repository.NewExamQuestionRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	reportCache := cache.NewReportCache(rdb)
	pdfCache := cache.NewPDFCache(rdb)

	// Exam bank comes from Mongo when seeded, built-in otherwise
	bank := exam.DefaultBank()
	if questions, err := examRepo.GetAll(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to load exam bank, using built-in questions")
	} else if len(questions) > 0 {
		bank = make([]model.ExamQuestion, 0, len(questions))
		for _, q := range questions {
			bank = append(bank, *q)
		}
		logger.Info().Int("questions", len(bank)).Msg("loaded exam bank")
	}
	examManager := exam.NewManagerWithBank(bank)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	dialogueSvc := service.NewDialogueService()
	reportSvc := service.NewReportService(reportCache, pdfCache, sessionCache, grading.NewEngine(), logger)
	scenarioSvc := service.NewScenarioService(scenarioRepo, sessionCache, dialogueSvc, logger)
	encounterSvc := service.NewEncounterService(sessionCache, recognizer.NewDefaultRecognizer(), dialogueSvc, reportSvc, wsHub, logger)
	examSvc := service.NewExamService(examManager, sessionCache, logger)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		ScenarioService:  scenarioSvc,
		EncounterService: encounterSvc,
		ExamService:      examSvc,
		ReportService:    reportSvc,
		WSHub:            wsHub,
		Logger:           logger,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
