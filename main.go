package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oliwiasala/movie-list/config"
	"github.com/oliwiasala/movie-list/database"
	"github.com/oliwiasala/movie-list/handlers"
	"github.com/oliwiasala/movie-list/logger"
	"github.com/oliwiasala/movie-list/server"
	"github.com/oliwiasala/movie-list/services"
)

func main() {
	if err := run(); err != nil {
		logger.Default().Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(cfg.Environment, cfg.Debug)
	log.Info("starting movie list", "env", cfg.Environment, "port", cfg.ServerPort, "debug", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		return err
	}

	if cfg.TMDBAPIKey == "" {
		log.Warn("TMDB_API_KEY is not set, search and import will fail")
	}
	if cfg.IsProduction() && cfg.SessionSecret == "change-me-in-production" {
		log.Warn("SESSION_SECRET is the default value")
	}

	store := services.NewMovieStore(db)
	catalog := services.NewCatalogClient(cfg, log)
	library := services.NewLibrary(store, catalog, cfg.TMDBImageBaseURL, log)

	sessions, err := services.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	h, err := handlers.New(library, sessions, store, log)
	if err != nil {
		return err
	}

	srv := server.New(server.DefaultConfig(cfg.ServerPort), h.Routes(), log)
	return srv.ListenAndServe(ctx)
}
