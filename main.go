package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"moviematcher/config"
	"moviematcher/handlers"
	"moviematcher/internal/auth"
	"moviematcher/internal/database"
	"moviematcher/services/recommend"
	"moviematcher/services/streaming"
	"moviematcher/utils"
)

func main() {
	cfgManager, err := config.Load(os.Getenv("MOVIEMATCHER_CONFIG"))
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	cfg := cfgManager.Get()

	if cfg.LogPath != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	userRepo := database.NewUserRepository(db.Connection())
	prefRepo := database.NewPreferenceRepository(db.Connection())
	tokens := auth.NewTokens(cfg.JWTSecret)

	streamingClient := streaming.NewClient(cfg.RapidAPIKey, cfg.RapidAPIHost, cfg.StreamingAPIURL)
	genreCache := streaming.NewGenreCache(streamingClient)
	movieSearch := streaming.NewMovieSearch(streamingClient, genreCache)

	recommender := recommend.NewClient(cfg.RecommenderURL)
	enricher := recommend.NewEnricher(streamingClient, cfg.EnrichWorkers)

	// Populate the genre cache before serving. Failure is logged, not fatal:
	// the server starts with an empty cache and /health reports it until a
	// manual refresh succeeds.
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := genreCache.Refresh(startupCtx); err != nil {
		log.Printf("[main] startup genre cache refresh failed: %v", err)
	}
	cancel()

	movieHandler := handlers.NewMovieHandler(movieSearch)
	recHandler := handlers.NewRecommendationHandler(recommender, enricher)
	prefHandler := handlers.NewPreferenceHandler(prefRepo, userRepo)
	userHandler := handlers.NewUserHandler(userRepo, tokens)
	genreHandler := handlers.NewGenreHandler(genreCache)

	router := utils.NewRouter()
	router.HandleFunc("/health", genreHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/movies/search", movieHandler.SearchMovies).Methods(http.MethodPost)
	api.HandleFunc("/movies/search", movieHandler.SearchMoviesQuery).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", recHandler.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/recommendations/enhanced", recHandler.GetEnhancedRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/recommendations/health", recHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/admin/genres/refresh", genreHandler.RefreshGenres).Methods(http.MethodPost)

	secured := api.PathPrefix("/preferences").Subrouter()
	secured.Use(tokens.RequireAuth)
	secured.HandleFunc("", prefHandler.SavePreferences).Methods(http.MethodPost)
	secured.HandleFunc("", prefHandler.GetPreferences).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}
