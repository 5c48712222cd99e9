package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themxtr/idealab2.1-sub000/internal/config"
	"github.com/themxtr/idealab2.1-sub000/internal/fetch"
	"github.com/themxtr/idealab2.1-sub000/internal/metrics"
	"github.com/themxtr/idealab2.1-sub000/internal/quote"
	"github.com/themxtr/idealab2.1-sub000/internal/server"
	"github.com/themxtr/idealab2.1-sub000/internal/store"
	"github.com/themxtr/idealab2.1-sub000/pkg/pcb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis and pricing API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rec *metrics.Recorder
	if cfg.Server.MetricsEnabled {
		rec = metrics.New()
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(ctx, cfg, log)
	if err != nil {
		return err
	}

	quotes, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.PostgresDSN, log)
	if err != nil {
		return fmt.Errorf("open quote store: %w", err)
	}
	if quotes != nil {
		defer quotes.Close()
	}

	srv := server.New(server.Deps{
		Quotes:  quote.NewService(quoteSettings(cfg), rec, log),
		Fetcher: fetcher,
		Catalog: catalog,
		Store:   quotes,
		Metrics: rec,
		Logger:  log,
	}, server.Options{
		Addr:           cfg.Server.Addr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	var health *server.HealthServer
	if cfg.GRPC.HealthAddr != "" {
		health, err = server.NewHealthServer(cfg.GRPC.HealthAddr, log)
		if err != nil {
			return err
		}
		go func() {
			if err := health.Serve(); err != nil {
				log.Error("grpc health server stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if health != nil {
			health.Stop()
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if health != nil {
		health.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func quoteSettings(cfg *config.Config) quote.Settings {
	return quote.Settings{
		Rates:               cfg.Pricing.Rates,
		Density:             cfg.Pricing.Density,
		FallbackWeightGrams: cfg.Pricing.FallbackWeightGrams,
		Support:             cfg.Support,
		OnParseFailure:      cfg.FailurePolicy(),
	}
}

func loadCatalog(cfg *config.Config) (*pcb.Catalog, error) {
	if cfg.PCB.CatalogPath == "" {
		return pcb.DefaultCatalog(), nil
	}
	return pcb.LoadCatalog(cfg.PCB.CatalogPath)
}

func newFetcher(ctx context.Context, cfg *config.Config, log *zap.Logger) (*fetch.Fetcher, error) {
	opts := []fetch.Option{fetch.WithMaxBytes(cfg.Fetch.MaxBytes)}
	if cfg.S3.Enabled {
		client, err := fetch.NewS3Client(ctx, fetch.S3Options{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetch.WithObjectStore(client))
	}
	return fetch.New(cfg.Fetch.Timeout, log, opts...), nil
}
