package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/icco/moodmovies/handlers"
	"github.com/icco/moodmovies/lib/config"
	"github.com/icco/moodmovies/lib/db"
	"github.com/icco/moodmovies/lib/health"
	"github.com/icco/moodmovies/lib/llm"
	"github.com/icco/moodmovies/lib/omdb"
	"github.com/icco/moodmovies/lib/present"
	"github.com/icco/moodmovies/lib/recommend"
	"github.com/icco/moodmovies/lib/supabase"
	"github.com/icco/moodmovies/lib/tracker"
)

type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *db.Store
	recommender *recommend.Recommender
	normalizer  *recommend.Normalizer
	movies      *omdb.Client
	assembler   *present.Assembler
	auth        *supabase.Client
	tracker     *tracker.Tracker
	router      *chi.Mux
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	gormDB, err := db.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, gormDB, logger); err != nil {
		return nil, err
	}
	store := db.NewStore(gormDB)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	gen, err := llm.New(ctx, cfg.GenAI, httpClient, logger)
	if err != nil {
		return nil, err
	}
	rec, err := recommend.New(gen, logger)
	if err != nil {
		return nil, err
	}
	norm, err := recommend.NewNormalizer(gen, logger)
	if err != nil {
		return nil, err
	}

	movies := omdb.NewClient(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, httpClient, logger)

	app := &App{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		recommender: rec,
		normalizer:  norm,
		movies:      movies,
		assembler:   present.NewAssembler(movies, cfg.EnrichConcurrency),
		auth:        supabase.NewClient(cfg.Supabase, httpClient, logger),
		tracker:     tracker.New(store, logger),
		router:      chi.NewRouter(),
	}

	app.setupRoutes()
	return app, nil
}

func (a *App) setupRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	a.router.Get("/", handlers.HandleHome())
	a.router.Get("/healthz", health.Check(a.store, a.cfg.GenAI.Provider))
	a.router.Handle("/metrics", promhttp.Handler())

	a.router.Post("/mood-recommendations/", handlers.HandleMoodRecommendations(a.recommender, a.normalizer, a.assembler, a.auth, a.tracker))
	a.router.Get("/trending-movies/", handlers.HandleTitleList(a.assembler, recommend.TrendingTitles))
	a.router.Get("/recent-movies/", handlers.HandleTitleList(a.assembler, recommend.RecentTitles))
	a.router.Get("/movie-details/{imdbID}/", handlers.HandleMovieDetails(a.movies, a.auth, a.tracker))

	a.router.Get("/feedback/", handlers.HandleFeedbackPage())
	a.router.Post("/feedback/", handlers.HandleFeedbackSubmit(a.store, a.auth))

	a.router.Route("/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(20, time.Minute))
		r.Post("/signup/", handlers.HandleSignUp(a.auth))
		r.Post("/signin/", handlers.HandleSignIn(a.auth))
		r.Post("/signout/", handlers.HandleSignOut(a.auth))
		r.Get("/profile/", handlers.HandleProfile(a.auth, a.store))
	})

	a.router.Post("/track-interaction/", handlers.HandleTrackInteraction(a.auth, a.tracker))
	a.router.Get("/user-recommendations/", handlers.HandleUserRecommendations(a.auth, a.tracker, a.recommender))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	app, err := NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to listen", slog.Any("error", err))
			os.Exit(1)
		}
	}()
	logger.Info("Starting server", slog.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.Any("error", err))
	}
}
