package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
	"github.com/goliatone/go-formbind/pkg/vocabulary/redisvocab"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo article forms over HTTP",
		Long: `Serves add and edit forms for an in-memory article collection, the
article list as JSON and Prometheus metrics. Configuration is read from
FORMBIND_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadServerConfig()
			if err != nil {
				return err
			}
			logger := a.logger
			if !cmd.Flags().Changed("log-level") {
				logger = logging.NewWriter(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			vocabularies, err := loadVocabularies(cfg)
			if err != nil {
				return err
			}
			d, err := newDemo(ctx, cfg, vocabularies, logger)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:        cfg.Addr,
				Handler:     d.routes(),
				ReadTimeout: cfg.ReadTimeout,
			}
			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("formbind server listening", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Warn("graceful shutdown did not complete", "err", err)
					return srv.Close()
				}
				return nil
			}
		},
	}
}

func (a *app) loadServerConfig() (config.Server, error) {
	if a.environ != nil {
		return config.LoadServerFrom(a.environ)
	}
	return config.LoadServer()
}

// loadVocabularies registers the YAML vocabularies of VocabularyDir, then the
// Redis backed ones.
func loadVocabularies(cfg config.Server) (*vocabulary.Registry, error) {
	registry := vocabulary.NewRegistry()
	if cfg.VocabularyDir != "" {
		if err := vocabulary.LoadFS(os.DirFS(cfg.VocabularyDir), registry); err != nil {
			return nil, err
		}
	}
	if cfg.RedisAddr != "" && len(cfg.Vocabularies) > 0 {
		source := redisvocab.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := source.Register(registry, cfg.Vocabularies...); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
