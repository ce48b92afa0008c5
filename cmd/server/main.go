package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/attendly/rollcall-backend/internal/config"
	"github.com/attendly/rollcall-backend/internal/database"
	"github.com/attendly/rollcall-backend/internal/handler"
	"github.com/attendly/rollcall-backend/internal/logger"
	"github.com/attendly/rollcall-backend/internal/repository"
	"github.com/attendly/rollcall-backend/internal/router"
	"github.com/attendly/rollcall-backend/internal/service"
	"github.com/attendly/rollcall-backend/internal/validator"
	ws "github.com/attendly/rollcall-backend/internal/websocket"
	"github.com/attendly/rollcall-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Rollcall Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── WebSocket Hub ─────────────────────────────────────────────────
	hubCtx, hubCancel := context.WithCancel(context.Background())
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	// ─── Wire Store → Service → Handlers ───────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	attendanceService := service.NewAttendanceService(studentRepo, rdb, hub, cfg.RosterCacheTTL, log)

	handlers := &router.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceService),
		WS:         handler.NewWSHandler(hub, log, cfg.AllowedOrigins),
	}

	// ─── Start Rollover Worker ─────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	rollover := worker.NewRolloverWorker(attendanceService, cfg.RolloverHour, log)
	go rollover.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, pool, rdb, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and close remaining WebSocket clients.
	workerCancel()
	hubCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
