package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taskhive/scheduler/pkg/server"
	"github.com/taskhive/scheduler/pkg/services/config"
	scheduleservice "github.com/taskhive/scheduler/pkg/services/schedule"
	"github.com/taskhive/scheduler/pkg/store/duckdb"
	schedulestore "github.com/taskhive/scheduler/pkg/store/duckdb/schedule"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the scheduler web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the scheduler config file (defaults and SCHEDULER_* env vars apply without one)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Store.DBPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	store, err := schedulestore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create schedule store: %w", err)
	}

	logger.Info().Str("db_path", cfg.Store.DBPath).Msg("schedule store ready")

	webAPI := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Schedules: scheduleservice.NewService(store),
			Logger:    logger,
		},
	})

	return webAPI.Start()
}
