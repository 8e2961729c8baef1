package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dukerupert/paydaypal/internal/config"
	"github.com/dukerupert/paydaypal/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:          "paydaypal",
		Short:        "Household chore tracker that turns chores into pocket money",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dbFlag != "" {
				cfg.DBPath = dbFlag
			}
			logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	dbFlag string
)

func main() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "SQLite database path (overrides PAYDAYPAL_DB_PATH)")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
