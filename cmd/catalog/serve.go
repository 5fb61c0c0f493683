package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/httpserver"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/search"
	"github.com/Skotchmaster/catalog/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustLoad()

		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
		slog.SetDefault(logger)

		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Warn("db_close_error", "error", err)
		}
	}()

	if cfg.AutoMigrate {
		if err := migrateUp(cfg.DatabaseURL, gdb); err != nil {
			return err
		}
		logger.Info("migrations_applied")
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("kafka_close_error", "error", err)
		}
	}()
	if len(cfg.KafkaBrokers) > 0 {
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	r := repo.New(gdb)
	catalog := &service.CatalogService{Repo: r, Events: publisher}
	if cfg.ESURL != "" {
		ix, err := newSearchIndex(ctx, cfg)
		if err != nil {
			logger.Error("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			catalog.Index = ix
			logger.Info("search_enabled", "index", cfg.ESIndex)
		}
	}
	authSvc := &service.AuthService{
		Repo:      r,
		JWTSecret: cfg.JWTSecret,
		TTL:       cfg.JWTTTL,
		Events:    publisher,
	}

	e := httpserver.New(logger, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		JWTSecret:      cfg.JWTSecret,
		Revocations:    authSvc,
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case sig := <-stop:
		logger.Info("shutdown_signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}

	logger.Info("server_stopped")
	return nil
}

func newSearchIndex(ctx context.Context, cfg config.Config) (*search.Index, error) {
	client, err := search.NewClient(search.Config{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return nil, err
	}

	ix := search.NewIndex(client, cfg.ESIndex)
	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}

// migrateUp applies the SQL migrations on Postgres. SQLite databases are
// brought up to date from the models instead.
func migrateUp(dsn string, gdb *gorm.DB) error {
	if db.IsSQLite(dsn) {
		return db.AutoMigrate(gdb)
	}

	m, err := db.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}
