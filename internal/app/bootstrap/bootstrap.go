package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	boardsync "retroboard/contexts/collaboration/board-sync-service"
	boardmemory "retroboard/contexts/collaboration/board-sync-service/adapters/memory"
	boardpostgres "retroboard/contexts/collaboration/board-sync-service/adapters/postgres"
	sessionservice "retroboard/contexts/collaboration/session-service"
	sessionpostgres "retroboard/contexts/collaboration/session-service/adapters/postgres"
	"retroboard/internal/platform/config"
	"retroboard/internal/platform/db"
	"retroboard/internal/platform/httpserver"
	"retroboard/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(cfg.ServiceName, cfg.BroadcastBuffer, logger)

	sessionRepo := sessionpostgres.NewRepository(pg.DB, logger)
	sessionModule := sessionservice.NewModule(sessionservice.Dependencies{
		Repo:   sessionRepo,
		Clock:  sessionpostgres.SystemClock{},
		IDGen:  sessionpostgres.UUIDGenerator{},
		Logger: logger,
	})

	boardRepo := boardpostgres.NewRepository(pg.DB, logger)
	boardModule := boardsync.NewModule(boardsync.Dependencies{
		Store:     boardRepo,
		Presence:  boardmemory.NewRoster(),
		Broadcast: bus,
		Subs:      bus,
		Clock:     boardpostgres.SystemClock{},
		IDGen:     boardpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(sessionModule, boardModule, bus, logger, normalizeAddr(cfg.HTTPPort), cfg.EnableSwaggerUI)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
