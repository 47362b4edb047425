package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/wardkeep/api"
	"github.com/mhollis/wardkeep/audit"
	"github.com/mhollis/wardkeep/config"
	"github.com/mhollis/wardkeep/guard"
	"github.com/mhollis/wardkeep/storage"
	bboltstorage "github.com/mhollis/wardkeep/storage/bbolt"
	"github.com/mhollis/wardkeep/storage/memory"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the operator dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		var medium storage.Medium
		if cfg.Storage.Path != "" {
			bm, err := bboltstorage.Open(cfg.Storage.Path, nil)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer bm.Close()
			medium = bm
		} else {
			logger.Warn("no storage path configured, using in-memory medium")
			medium = memory.New()
		}

		opts := []guard.Option{guard.WithLogger(logger)}
		if cfg.Audit.WebhookURL != "" {
			hook := audit.NewWebhook(cfg.Audit.WebhookURL, cfg.Audit.WebhookAuthHeader, logger)
			defer hook.Close()
			opts = append(opts, guard.WithAlertFunc(hook.Notify))
		}

		g, err := guard.New(cfg, medium, opts...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Dashboard.Listen,
			Handler:           api.New(g, api.WithLogger(logger)).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("dashboard listening", "addr", cfg.Dashboard.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "wardkeep.yaml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd)
}
