package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/mentorlink/internal/bootstrap"
	"github.com/yigit/mentorlink/internal/config"
	"github.com/yigit/mentorlink/internal/pkg/logger"
	"github.com/yigit/mentorlink/internal/seed"
	"github.com/yigit/mentorlink/internal/server"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "mentorlink",
		Short:         "MentorLink API server",
		Long:          `MentorLink matches students with mentors. Without a subcommand it runs the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE:  runMigrate,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts unless they already exist",
		RunE:  runSeed,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, err := server.NewServer(ctxOf(cmd), configPath)
	if err != nil {
		return err
	}
	if err := srv.Run(); err != nil {
		return err
	}
	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs the postgres driver, got %q", cfg.Database.Driver)
	}

	storage, err := bootstrap.OpenStorage(ctxOf(cmd), cfg, lgr)
	if err != nil {
		return err
	}
	storage.Close()
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == config.DriverMemory {
		return fmt.Errorf("seeding the memory driver has no lasting effect; set seed.enabled instead")
	}

	ctx := ctxOf(cmd)
	storage, err := bootstrap.OpenStorage(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer storage.Close()

	rdb := bootstrap.SetupRedis(ctx, cfg, lgr)
	defer rdb.Close() //nolint:errcheck

	deps := bootstrap.BuildDependencies(cfg, storage.Store, rdb, lgr)
	created, err := seed.CreateDefaultData(ctx, storage.Store, deps.Services.Auth, lgr)
	if err != nil {
		return err
	}
	if created {
		lgr.Info().Msg("Seed complete")
	}
	return nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
