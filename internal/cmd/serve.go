package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/appid"
	"github.com/hide0128/finder/internal/config"
	errwrap "github.com/hide0128/finder/internal/errors"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/output"
	"github.com/hide0128/finder/internal/server"
	"github.com/hide0128/finder/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API (POST /v1/normalize, /v1/lookup, /v1/export) with
health, version and metrics endpoints.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: re-read the config file (restart to apply provider changes)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd, nil)
	identity := appid.Get()

	observability.InitServerLogger(identity.BinaryName, cfg.Logging.Level, cfg.Logging.Profile)
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(identity.BinaryName, cfg.Metrics.Port); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
	}

	orchestrator, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return errwrap.WrapConfigInvalid(cmd.Context(), err, "lookup provider setup failed")
	}

	health := handlers.NewHealthManager(versionInfo.Version)
	if checker, ok := orchestrator.Lookuper.(handlers.HealthChecker); ok && cfg.Health.Enabled {
		health.RegisterChecker("ailink", checker)
	}

	api := &handlers.FinderAPI{
		Searcher: orchestrator,
		Render: output.Options{
			Sentinel:     cfg.Output.UnknownSentinel,
			BlankUnknown: cfg.Output.BlankUnknown,
		},
	}
	srv := server.New(cfg.Server, api, health)

	logger.Info("Initializing server",
		zap.String("service", identity.BinaryName),
		zap.String("version", versionInfo.Version),
		zap.String("addr", srv.Addr()),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Int("metrics_port", cfg.Metrics.Port),
		zap.Bool("verify_domains", cfg.Verify.Enabled))

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	// Handlers run LIFO: the HTTP server stops before the logger flushes.
	signals.OnShutdown(func(ctx context.Context) error {
		if err := logger.Sync(); err != nil {
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				return nil
			}
			logger.Error("Failed to reload config file",
				zap.String("file", viper.ConfigFileUsed()),
				zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}
		if _, err := config.Load(ctx); err != nil {
			logger.Warn("Reloaded config is invalid; keeping running settings", zap.Error(err))
			return nil
		}
		logger.Info("Configuration re-read; restart to apply provider and server changes",
			zap.String("file", viper.ConfigFileUsed()))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	go func() {
		if err := signals.Listen(cmd.Context()); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return errwrap.WrapInternal(cmd.Context(), err, "server error")
	}
	return nil
}
