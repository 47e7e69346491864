package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/fittrack-be/internal/api/handlers"
	"github.com/isdelr/fittrack-be/internal/config"
	"github.com/isdelr/fittrack-be/internal/services"
	"github.com/isdelr/fittrack-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Dependencies are the services the router exposes over HTTP.
type Dependencies struct {
	Users    services.UserServiceProvider
	Workouts services.WorkoutServiceProvider
	Backups  services.BackupServiceProvider
	Store    handlers.StatsProvider
	Hub      *websocket.Hub
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(cfg.BodyLimitBytes))

	corsOptions := cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}
	r.Use(cors.Handler(corsOptions))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users)
	workoutHandler := handlers.NewWorkoutHandler(deps.Workouts)
	backupHandler := handlers.NewBackupHandler(deps.Backups)
	healthHandler := handlers.NewHealthHandler(deps.Store)
	originCheck := cors.New(corsOptions)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, func(r *http.Request) bool {
		// Non-browser clients send no Origin header.
		return r.Header.Get("Origin") == "" || originCheck.OriginAllowed(r)
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Health)
		r.Get("/details", healthHandler.Details)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Put("/profile", userHandler.UpdateProfile)
		r.Get("/users/{id}", userHandler.Get)

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", workoutHandler.List)
			r.Post("/", workoutHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", workoutHandler.Update)
				r.Delete("/", workoutHandler.Delete)
			})
		})

		// Restore overwrites every account, so the backup API is opt-in.
		if cfg.BackupAPIEnabled {
			r.Route("/backups", func(r chi.Router) {
				r.Get("/", backupHandler.GetAll)
				r.Post("/", backupHandler.Create)
				r.Post("/{name}/restore", backupHandler.Restore)
			})
		}

		// WebSocket connection endpoint
		r.Get("/ws", wsHandler.Serve)
	})

	if fi, err := os.Stat(cfg.StaticDir); err == nil && fi.IsDir() {
		log.Info().Str("dir", cfg.StaticDir).Msg("Serving static files")
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
