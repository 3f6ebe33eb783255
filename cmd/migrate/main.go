package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/infra"
	"github.com/hassanalbraa/kingstore/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	if err := run(logger.Info); err != nil {
		logger.Error("migration run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("migration run finished")
}

func run(info func(msg string, args ...any)) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init postgres driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	info("schema migrations applied")

	if os.Getenv("SEED_OFFERS") == "true" {
		if err := seedCatalog(dsn, info); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	return nil
}

func seedCatalog(dsn string, info func(msg string, args ...any)) error {
	ctx := context.Background()

	pool, err := infra.NewPostgresPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := catalog.NewService(catalog.NewPostgresRepository(pool))
	added, updated, err := svc.Seed(ctx)
	if err != nil {
		return err
	}
	info("catalog seeded", "added", added, "updated", updated)
	return nil
}
