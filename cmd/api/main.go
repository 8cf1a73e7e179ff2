package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yigit/eventhub/internal/app/migrations"
	"github.com/yigit/eventhub/internal/bootstrap"
	"github.com/yigit/eventhub/internal/pkg/logger"
	"github.com/yigit/eventhub/internal/server"
)

// @title EventHub API
// @version 1.0
// @description API for the EventHub events, hackathons and internships platform

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "eventhub",
		Short:         "EventHub API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(configPath)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			if err := srv.Run(); err != nil {
				return err
			}
			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}

	root.AddCommand(serve, newMigrateCmd(&configPath))
	// Running the binary without a subcommand starts the server
	root.RunE = serve.RunE
	return root
}

func newMigrateCmd(configPath *string) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and seed the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
			if err != nil {
				return err
			}
			database, err := bootstrap.OpenDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if !statusOnly {
				return bootstrap.MigrateAndSeed(ctx, cfg, database, lgr)
			}

			list, err := migrations.NewMigrator(database.Pool, cfg.Server.MigrationsDir, lgr).Status(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range list {
				state := "pending"
				if m.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", m.Version, state, m.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "list migrations and whether they are applied, without running them")
	return cmd
}
