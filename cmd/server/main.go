package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/internal/config"
	"github.com/dotuffour/retreat-portal/internal/server"
	"github.com/dotuffour/retreat-portal/pkg/clients/imageclient"
	"github.com/dotuffour/retreat-portal/pkg/clients/sheetsclient"
	"github.com/dotuffour/retreat-portal/pkg/store"
	"github.com/dotuffour/retreat-portal/pkg/store/pgstore"
	"github.com/dotuffour/retreat-portal/pkg/store/sheetstore"
	"github.com/dotuffour/retreat-portal/pkg/utils/logging"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	logsDir    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "retreat-portal",
		Short: "Event registration portal - public sign-up and admin review",
		Long:  `A web server for event registrations: a public form with payment-proof upload and a passphrase-gated admin view for confirming attendees.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: portal.yaml in cwd or home)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs", "", "Directory for log files (console-only when empty)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registration server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("retreat-portal %s (%s)\n", version, commit)
		},
	}
}

func runServe() error {
	// Local .env files are a dev convenience; absence is not an error.
	_ = godotenv.Load()

	logger, err := logging.InitLogger(logsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	logger.Info("Loading configuration")
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	uploader := imageclient.NewClient(cfg.Cloudinary.CloudName, cfg.Cloudinary.UploadPreset)

	handler, err := server.New(cfg, st, uploader, logger)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	srv := server.NewHTTPServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("event", cfg.EventName),
			zap.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// buildStore selects the attendee store backend. The cleanup func releases
// backend resources and is safe to call even on a no-op backend.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		logger.Info("Connecting to postgres")
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return pg, pg.Close, nil
	default:
		logger.Info("Initializing sheets client", zap.String("spreadsheetID", cfg.SpreadsheetID))
		creds, err := config.ResolveGoogleCredentials(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve Google credentials: %w", err)
		}
		client, err := sheetsclient.NewClient(ctx, cfg.SpreadsheetID, creds)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return sheetstore.New(client, cfg.SheetTab), func() {}, nil
	}
}
