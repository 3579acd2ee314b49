// Package app wires the link shortener together and runs the HTTP server
// until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/bytelink/internal/adapter/qr"
	"github.com/vadimbarashkov/bytelink/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/bytelink/internal/config"
	"github.com/vadimbarashkov/bytelink/internal/usecase"
	"github.com/vadimbarashkov/bytelink/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/bytelink/internal/adapter/delivery/http"
	repository "github.com/vadimbarashkov/bytelink/internal/adapter/repository/postgres"
)

const shutdownTimeout = 10 * time.Second

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	renderer := qr.NewRenderer(cfg.QR.Size)
	opts := []usecase.Option{
		usecase.WithShortCodeLength(cfg.ShortCodeLength),
		usecase.WithMaxRetries(cfg.MaxAllocRetries),
		usecase.WithLogger(logger.Logger),
	}

	var linkUseCase *usecase.LinkUseCase

	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, links are lost on restart")
		linkUseCase = usecase.New(cfg.BaseURL, memory.NewLinkRepository(), renderer, opts...)
	default:
		db, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer db.Close()

		linkUseCase = usecase.New(cfg.BaseURL, repository.NewLinkRepository(db), renderer, opts...)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, linkUseCase),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env, "storage", cfg.Storage)

		if cfg.HTTPServer.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (*sqlx.DB, error) {
	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	version, err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("database is ready", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB, "schema_version", version)

	return db, nil
}
