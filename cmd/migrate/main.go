package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Olatundeadedeji/streamcati/internal/config"
	"github.com/Olatundeadedeji/streamcati/internal/database"
	"github.com/Olatundeadedeji/streamcati/internal/logger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dsn string
		log *zap.Logger
		mg  *database.Migrator
	)

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the streamcati database schema",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var db config.DBConfig
			if err := envconfig.Process("", &db); err != nil {
				return fmt.Errorf("read database config: %w", err)
			}
			if dsn == "" {
				dsn = db.DSN
			}
			if dsn == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			var err error
			log, err = logger.NewLogger(os.Getenv("APP_ENV"))
			if err != nil {
				return err
			}
			mg, err = database.NewMigrator(dsn)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if mg != nil {
				_ = mg.Close()
			}
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&dsn, "database-url", "", "Postgres DSN (defaults to DATABASE_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := mg.Up(); err != nil {
				return err
			}
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			log.Info("migrations complete", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid steps %q", args[0])
				}
				steps = n
			}
			if err := mg.Down(steps); err != nil {
				return err
			}
			log.Info("rolled back", zap.Int("steps", steps))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version: %w", err)
			}
			if err := mg.Force(version); err != nil {
				return fmt.Errorf("force version: %w", err)
			}
			log.Info("forced version", zap.Int("version", version))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
			return nil
		},
	})

	return root
}
