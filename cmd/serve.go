package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/library"
	"github.com/desertthunder/shelf/internal/repositories"
	"github.com/desertthunder/shelf/internal/server"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve opens the database, applies migrations and runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.config.Auth.SessionSecret == shared.DefaultSessionSecret {
		r.logger.Warn("auth.session_secret is the example value; set SHELF_SESSION_SECRET before exposing the server")
	}

	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, authSvc := r.buildServer(db)

	if n, err := authSvc.PurgeExpired(ctx); err != nil {
		r.logger.Warn("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		r.logger.Info("purged expired sessions", "count", n)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting shelf", "version", version, "config", r.config.String())
	return srv.Start(ctx)
}

// buildServer wires repositories and services onto a [server.Server].
func (r *Runner) buildServer(db *sql.DB) (*server.Server, *auth.Service) {
	authSvc := auth.NewService(
		repositories.NewUserRepository(db),
		repositories.NewSessionRepository(db),
		r.config.Auth.SessionSecret,
		r.config.Auth.SessionTTL.Duration,
		shared.WithLogger(r.logger, "component", "auth"),
	)
	librarySvc := library.NewService(
		repositories.NewBookRepository(db),
		repositories.NewActivityRepository(db),
		shared.WithLogger(r.logger, "component", "library"),
	)

	srv := server.New(server.Deps{
		Config:  r.config,
		DB:      db,
		Auth:    authSvc,
		Library: librarySvc,
		Catalog: r.catalog,
		Logger:  r.logger,
	})
	return srv, authSvc
}

// openDatabase opens and migrates the configured database.
func (r *Runner) openDatabase(ctx context.Context) (*sql.DB, error) {
	r.logger.Info("opening database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// SetupDatabase creates the config file from the embedded example when missing, then migrates the database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil && !r.configFixed {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
			r.logger.Info("config file created", "path", configPath)
		}
	}

	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

// MigrateUp applies pending migrations.
func (r *Runner) MigrateUp(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return r.writePlain("✓ Migrations applied\n")
}

// MigrateRollback reverts the most recently applied migration.
func (r *Runner) MigrateRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	rolledBack, err := shared.RollbackMigration(ctx, db)
	if err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	r.logger.Info("rolled back migration", "version", rolledBack)
	return r.writePlain("✓ Rolled back migration %04d\n", rolledBack)
}

// MigrateStatus prints every known migration and whether it has been applied.
func (r *Runner) MigrateStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	states, err := shared.MigrationStatus(ctx, db)
	if err != nil {
		return err
	}

	for _, s := range states {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Local().Format(time.DateTime)
		}
		r.writePlain("%04d  %-16s %s\n", s.Version, s.Name, applied)
	}
	return nil
}
