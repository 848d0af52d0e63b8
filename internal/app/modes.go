package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"eventpulse/internal/domain"
)

// MarketMode runs one event collection and exports the result.
func (a *App) MarketMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting market mode",
		slog.String("event_url", a.cfg.Polymarket.EventURL),
	)

	data, err := deps.Events.Fetch(ctx, a.cfg.Polymarket.EventURL)
	if err != nil {
		return fmt.Errorf("market mode: %w", err)
	}

	return a.exportEvent(ctx, deps, data)
}

// WikiMode runs one attention collection and exports the result.
func (a *App) WikiMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting wiki mode",
		slog.String("article", a.cfg.Wikipedia.Article),
	)

	start, err := domain.ParseDate(a.cfg.Fetch.StartDate)
	if err != nil {
		return fmt.Errorf("wiki mode: start_date: %w", err)
	}
	end, err := domain.ParseDate(a.cfg.Fetch.EndDate)
	if err != nil {
		return fmt.Errorf("wiki mode: end_date: %w", err)
	}

	data, err := deps.Attention.Fetch(ctx, a.cfg.Wikipedia.Article, start, end)
	if err != nil {
		return fmt.Errorf("wiki mode: %w", err)
	}

	return a.exportAttention(ctx, deps, data)
}

// FullMode runs the market and wiki collections concurrently and exports
// both. The first failure cancels the other collection.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.MarketMode(ctx, deps)
	})
	g.Go(func() error {
		return a.WikiMode(ctx, deps)
	})

	return g.Wait()
}

// exportEvent writes the event dataset in the configured formats and mirrors
// the files when archiving is enabled.
func (a *App) exportEvent(ctx context.Context, deps *Dependencies, data *domain.EventData) error {
	format := strings.ToLower(a.cfg.Output.Format)

	var paths []string
	if format == "json" || format == "both" {
		path, err := deps.Exporter.WriteEventJSON(data)
		if err != nil {
			return fmt.Errorf("export event json: %w", err)
		}
		paths = append(paths, path)
	}
	if format == "csv" || format == "both" {
		csvPaths, err := deps.Exporter.WriteEventCSVs(data)
		if err != nil {
			return fmt.Errorf("export event csv: %w", err)
		}
		paths = append(paths, csvPaths...)
	}

	a.archive(ctx, deps, "events", paths)
	return nil
}

// exportAttention writes the attention dataset in the configured formats and
// mirrors the files when archiving is enabled.
func (a *App) exportAttention(ctx context.Context, deps *Dependencies, data *domain.AttentionData) error {
	format := strings.ToLower(a.cfg.Output.Format)

	var paths []string
	if format == "json" || format == "both" {
		path, err := deps.Exporter.WriteAttentionJSON(data)
		if err != nil {
			return fmt.Errorf("export attention json: %w", err)
		}
		paths = append(paths, path)
	}
	if format == "csv" || format == "both" {
		csvPaths, err := deps.Exporter.WriteAttentionCSVs(data)
		if err != nil {
			return fmt.Errorf("export attention csv: %w", err)
		}
		paths = append(paths, csvPaths...)
	}

	a.archive(ctx, deps, "wiki", paths)
	return nil
}

// archive mirrors exported files into object storage when enabled. Upload
// failures are logged and do not fail the run.
func (a *App) archive(ctx context.Context, deps *Dependencies, kind string, paths []string) {
	if deps.Archiver == nil {
		return
	}
	for _, path := range paths {
		if err := deps.Archiver.Archive(ctx, kind, path); err != nil {
			a.logger.WarnContext(ctx, "archive upload failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}
}
