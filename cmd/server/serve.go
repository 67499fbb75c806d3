package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dialogamente/backend/internal/auth"
	"github.com/dialogamente/backend/internal/cache"
	"github.com/dialogamente/backend/internal/config"
	"github.com/dialogamente/backend/internal/database"
	"github.com/dialogamente/backend/internal/events"
	"github.com/dialogamente/backend/internal/gamification"
	"github.com/dialogamente/backend/internal/httputil"
	"github.com/dialogamente/backend/internal/insights"
	"github.com/dialogamente/backend/internal/middleware"
	"github.com/dialogamente/backend/internal/profiles"
	"github.com/dialogamente/backend/internal/scoring"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var store cache.CacheService = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		store = cache.NewRedisCache(client, "dialogamente:")
	} else {
		log.Printf("[server] REDIS_URL not set, caching disabled")
	}

	bus, err := events.NewBus(events.Config{
		KafkaBrokers:  cfg.KafkaBrokers,
		Topic:         cfg.EventsTopic,
		ConsumerGroup: "dialogamente-gamification",
		Debug:         !cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("init events: %w", err)
	}
	defer bus.Close()

	provider, err := insights.NewProvider(ctx, insights.ProviderConfig{
		Name:            cfg.InsightsProvider,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIModel:     cfg.OpenAIModel,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("init insights provider: %w", err)
	}

	// Initialize services
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	progression := gamification.NewService(
		gamification.NewStore(db),
		gamification.NewEngine(gamification.DefaultCatalog()),
	)
	profileService := profiles.NewService(
		profiles.NewStore(db),
		scoring.NewScorer(scoring.DefaultAnswerKey()),
		store,
		bus,
		insights.NewCoach(provider),
		progression,
		profiles.Options{CohortTTL: cfg.CohortTTL, InsightTTL: cfg.InsightTTL},
	)

	go func() {
		if err := bus.Consume(ctx, progression.HandleTestCompleted); err != nil {
			log.Printf("[server] event consumer stopped: %v", err)
		}
	}()
	select {
	case <-bus.Ready():
	case <-time.After(5 * time.Second):
		log.Printf("[server] event consumer not ready, starting anyway")
	}

	router := newRouter(auth.NewHandler(db, tokens), tokens,
		profiles.NewHandler(profileService), gamification.NewHandler(progression))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handlers.CombinedLoggingHandler(os.Stdout, c.Handler(router))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on :%s (%s)", cfg.Port, cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(authHandler *auth.Handler, tokens middleware.TokenParser,
	profileHandler *profiles.Handler, gamificationHandler *gamification.Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens))
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	profileHandler.Register(protected)
	gamificationHandler.Register(protected)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	return r
}
