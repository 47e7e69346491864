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

	"github.com/isdelr/fittrack-be/internal/api"
	"github.com/isdelr/fittrack-be/internal/auth"
	"github.com/isdelr/fittrack-be/internal/config"
	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/idgen"
	"github.com/isdelr/fittrack-be/internal/logger"
	"github.com/isdelr/fittrack-be/internal/monitoring"
	"github.com/isdelr/fittrack-be/internal/services"
	"github.com/isdelr/fittrack-be/internal/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.Init(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("Could not read .env file")
	}

	// Set up the document store
	store := database.New(cfg.DataFile, database.Options{FailOpen: cfg.StoreFailOpen})
	if err := store.Initialize(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataFile).Msg("Failed to initialize document store")
	}
	if cfg.StoreFailOpen {
		log.Warn().Msg("STORE_FAIL_OPEN is set: an unreadable document is served as empty")
	}

	ids, err := idgen.New(cfg.SnowflakeNode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize id generator")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(hub)
	userService := services.NewUserService(store, auth.NewBcryptHasher(), ids, eventService)
	workoutService := services.NewWorkoutService(store, ids, eventService)
	backupService, err := services.NewBackupService(store, cfg.BackupPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backup service")
	}

	// Set up and run the background scheduler
	scheduler, err := monitoring.NewScheduler(backupService, cfg.BackupSchedule, cfg.BackupRetain)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backup scheduler")
	}
	scheduler.Start()

	// Set up router
	router := api.NewRouter(cfg, api.Dependencies{
		Users:    userService,
		Workouts: workoutService,
		Backups:  backupService,
		Store:    store,
		Hub:      hub,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	scheduler.Stop(ctx) // Stop the scheduler
	hub.Stop()

	log.Info().Msg("Server exiting")
}
