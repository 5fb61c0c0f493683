package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/catalog/internal/config"
	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage issued access tokens",
}

var tokensPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete revocation records of tokens that have already expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close(gdb)

		svc := &service.AuthService{Repo: repo.New(gdb)}
		n, err := svc.PurgeRevoked(ctx)
		if err != nil {
			return fmt.Errorf("purge revoked tokens: %w", err)
		}
		cmd.Printf("purged %d revoked token(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensPurgeCmd)
}
