package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Olatundeadedeji/streamcati/internal/config"
	"github.com/Olatundeadedeji/streamcati/internal/contacts"
	"github.com/Olatundeadedeji/streamcati/internal/database"
	"github.com/Olatundeadedeji/streamcati/internal/importer"
	"github.com/Olatundeadedeji/streamcati/internal/logger"
	"github.com/Olatundeadedeji/streamcati/internal/remote"
	"github.com/Olatundeadedeji/streamcati/internal/repository"
	"github.com/Olatundeadedeji/streamcati/pkg"
	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	file        string
	aliases     string
	dryRun      bool
	backend     string
	remoteURL   string
	remoteToken string
	username    string
	password    string
	databaseURL string
}

// store is what both backends offer the importer.
type store interface {
	contacts.Store
	importer.InterviewStore
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "importer",
		Short: "Load field survey exports into the interview backend",
	}

	importCmd := &cobra.Command{
		Use:          "import",
		Short:        "Import contacts, interviews and responses from an .xlsx or .json export",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runImport(ctx, cmd, opts)
		},
	}
	f := importCmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "export file (.xlsx or .json)")
	f.StringVar(&opts.aliases, "aliases", "", "YAML file with extra region aliases")
	f.BoolVar(&opts.dryRun, "dry-run", false, "normalize and print the batch without writing")
	f.StringVar(&opts.backend, "backend", "", "remote or postgres (defaults to STORE_BACKEND)")
	f.StringVar(&opts.remoteURL, "remote-url", "", "survey backend URL (defaults to REMOTE_BASE_URL)")
	f.StringVar(&opts.remoteToken, "token", os.Getenv("REMOTE_TOKEN"), "survey backend token")
	f.StringVar(&opts.username, "username", "", "log in to the survey backend instead of passing --token")
	f.StringVar(&opts.password, "password", os.Getenv("REMOTE_PASSWORD"), "password for --username")
	f.StringVar(&opts.databaseURL, "database-url", "", "Postgres DSN (defaults to DATABASE_URL)")
	_ = importCmd.MarkFlagRequired("file")

	root.AddCommand(importCmd)
	return root
}

func runImport(ctx context.Context, cmd *cobra.Command, opts options) error {
	log, err := logger.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		return err
	}
	defer log.Sync()

	norm := importer.NewNormalizer()
	if opts.aliases != "" {
		if err := norm.LoadAliases(opts.aliases); err != nil {
			return err
		}
	}

	records, err := importer.ReadFile(opts.file)
	if err != nil {
		return err
	}
	batch := norm.Normalize(records)
	log.Info("export normalized",
		zap.String("file", opts.file),
		zap.Int("records", len(records)),
		zap.Int("contacts", len(batch.Contacts)),
		zap.Int("interviews", len(batch.Interviews)),
		zap.Int("responses", len(batch.Responses)),
		zap.Int("rejected", len(batch.Rejected)),
	)

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), batch.String())
		return nil
	}

	s, closeStore, err := openStore(ctx, opts, log)
	if err != nil {
		return err
	}
	defer closeStore()

	dir := contacts.NewDirectory(s, log)
	rep, err := importer.NewRunner(dir, s, log).Run(ctx, batch)
	out, _ := json.MarshalIndent(rep, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func openStore(ctx context.Context, opts options, log *zap.Logger) (store, func(), error) {
	var (
		sc  config.StoreConfig
		rc  config.RemoteConfig
		dbc config.DBConfig
	)
	for _, c := range []any{&sc, &rc, &dbc} {
		if err := envconfig.Process("", c); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}
	backend := sc.Backend
	if opts.backend != "" {
		backend = opts.backend
	}

	switch backend {
	case config.BackendRemote:
		baseURL := rc.BaseURL
		if opts.remoteURL != "" {
			baseURL = opts.remoteURL
		}
		client := remote.NewClient(baseURL, log, remote.WithTimeout(rc.Timeout))
		token := opts.remoteToken
		if opts.username != "" {
			t, _, err := client.Login(ctx, opts.username, opts.password)
			if err != nil {
				return nil, nil, fmt.Errorf("login: %w", err)
			}
			token = t
		}
		if token == "" {
			return nil, nil, fmt.Errorf("a backend token or --username is required for the remote backend")
		}
		return client.WithToken(token), func() {}, nil

	case config.BackendPostgres:
		if opts.databaseURL != "" {
			dbc.DSN = opts.databaseURL
		}
		if dbc.DSN == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		var crypto *pkg.Crypto
		if key := os.Getenv("AES_SECRET_KEY"); key != "" {
			c, err := pkg.NewCrypto(key)
			if err != nil {
				return nil, nil, err
			}
			crypto = c
		}
		pool, err := database.Connect(ctx, dbc)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRepository(pool, crypto), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", backend)
}
