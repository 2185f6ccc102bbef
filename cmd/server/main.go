package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-iam/pkg/config"
	"github.com/tendant/simple-iam/pkg/router"
)

const pingTimeout = 5 * time.Second

func main() {
	// Bootstrap logger until the configured level is known
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(config.DefaultEnvFiles()...)
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: true,
	})))

	slog.Info("Starting Simple IAM Service", "store", cfg.StoreBackend, "hasher", cfg.Password.Algorithm)

	var pool *pgxpool.Pool
	if cfg.StoreBackend == config.StorePostgres {
		pool, err = connect(cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "host", cfg.Database.Host, "port", cfg.Database.Port, "db", cfg.Database.Database, "err", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	routes, err := router.NewConfig(cfg, pool)
	if err != nil {
		slog.Error("Failed to initialize services", "err", err)
		os.Exit(1)
	}
	defer routes.LoginLimiter.Close()

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	router.SetupRoutes(server.R, routes)

	slog.Info(strings.Repeat("=", 60))
	slog.Info("Simple IAM Service Ready")
	slog.Info("API Endpoints:")
	slog.Info("  POST /api/v1/login          - Login")
	slog.Info("  POST /api/v1/login:verify   - Verify token")
	slog.Info("  GET  /api/v1/me             - Current user (auth required)")
	slog.Info("  *    /api/v1/roles          - Roles")
	slog.Info("  *    /api/v1/users          - Users")
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}

// connect opens the pool and makes sure the database answers
func connect(dbConfig config.DatabaseConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbConfig.ToDatabaseURL())
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
