package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "eventpulse/internal/blob/s3"
	"eventpulse/internal/config"
	"eventpulse/internal/domain"
	"eventpulse/internal/export"
	"eventpulse/internal/pipeline"
	"eventpulse/internal/platform/polymarket"
	"eventpulse/internal/platform/wikipedia"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Events    *pipeline.EventFetcher
	Attention *pipeline.AttentionFetcher
	Exporter  *export.Writer
	Archiver  *export.Archiver
}

// needsPolymarket returns true for modes that fetch market data.
func needsPolymarket(mode string) bool {
	switch mode {
	case "market", "full":
		return true
	default:
		return false
	}
}

// needsWikipedia returns true for modes that fetch attention data.
func needsWikipedia(mode string) bool {
	switch mode {
	case "wiki", "full":
		return true
	default:
		return false
	}
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	mode := strings.ToLower(cfg.Mode)
	timeout := cfg.Fetch.RequestTimeout.Duration

	// --- Polymarket clients (only for modes that fetch market data) ---
	if needsPolymarket(mode) {
		fetchCfg := pipeline.EventFetcherConfig{
			FidelityMinutes:     cfg.Fetch.FidelityMinutes,
			BucketSeconds:       int64(cfg.Fetch.BucketSeconds),
			ExcludePlaceholders: cfg.Fetch.ExcludePlaceholders,
		}
		if cfg.Fetch.StartDate != "" {
			t, err := domain.ParseDate(cfg.Fetch.StartDate)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: start_date: %w", err)
			}
			fetchCfg.StartDate = t
		}
		if cfg.Fetch.EndDate != "" {
			t, err := domain.ParseDate(cfg.Fetch.EndDate)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: end_date: %w", err)
			}
			fetchCfg.EndDate = t
		}

		deps.Events = pipeline.NewEventFetcher(
			polymarket.NewGammaClient(cfg.Polymarket.GammaHost, timeout),
			polymarket.NewClobClient(cfg.Polymarket.ClobHost, timeout),
			polymarket.NewDataClient(cfg.Polymarket.DataHost, timeout, cfg.Fetch.TradePageDelay.Duration),
			fetchCfg,
			logger,
		)
	}

	// --- Wikipedia client (only for modes that fetch attention data) ---
	if needsWikipedia(mode) {
		wikiClient := wikipedia.NewClient(
			cfg.Wikipedia.RestHost,
			cfg.Wikipedia.ApiHost,
			cfg.Wikipedia.UserAgent,
			timeout,
		)
		deps.Attention = pipeline.NewAttentionFetcher(wikiClient, wikiClient, logger)
	}

	// --- Local export ---
	deps.Exporter = export.NewWriter(cfg.Output.Dir, logger)

	// --- S3 archive (only when enabled) ---
	if cfg.Archive.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.Archive.Endpoint,
			Region:         cfg.Archive.Region,
			Bucket:         cfg.Archive.Bucket,
			AccessKey:      cfg.Archive.AccessKey,
			SecretKey:      cfg.Archive.SecretKey,
			UseSSL:         cfg.Archive.UseSSL,
			ForcePathStyle: cfg.Archive.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		// Fail fast on unreachable or misconfigured buckets rather than at
		// the end of a long fetch.
		if err := s3Client.Health(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		deps.Archiver = export.NewArchiver(s3blob.NewWriter(s3Client), cfg.Archive.Prefix, logger)
	}

	return deps, cleanup, nil
}
