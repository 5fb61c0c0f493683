package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
)

var errSQLiteDown = errors.New("migrate down is only supported on Postgres")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close(gdb)

		if err := migrateUp(cfg.DatabaseURL, gdb); err != nil {
			return err
		}
		cmd.Println("migrations applied")
		return nil
	},
}

var downSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
		if db.IsSQLite(cfg.DatabaseURL) {
			return errSQLiteDown
		}

		m, err := db.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Down(downSteps); err != nil {
			return err
		}
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		cmd.Printf("rolled back %d step(s), now at version %d (dirty=%t)\n", downSteps, v, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")
}
