package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studyset-api/internal/config"
	"github.com/phrazzld/studyset-api/internal/platform/postgres"
	"github.com/phrazzld/studyset-api/internal/service"
	"github.com/phrazzld/studyset-api/internal/service/auth"
	"github.com/phrazzld/studyset-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *sql.DB

	setStore   store.SetStore
	jwtService auth.JWTService
	setService service.SetService
}

// newApplication wires every dependency: database, stores, services.
// The caller owns the returned application and must call cleanup on
// shutdown.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, logger); err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	setStore := postgres.NewPostgresSetStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	setService, err := service.NewSetService(db, setStore, logger)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create set service: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     logger,
		db:         db,
		setStore:   setStore,
		jwtService: jwtService,
		setService: setService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database connection", "error", err)
	}
}
