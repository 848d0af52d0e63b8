package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventpulse/internal/domain"
	"eventpulse/internal/platform/polymarket"
)

// MetadataFetcher retrieves the market list for an event slug.
type MetadataFetcher interface {
	EventMarkets(ctx context.Context, slug string) ([]domain.Market, error)
}

// PriceFetcher retrieves an outcome token's price series over a range.
type PriceFetcher interface {
	PriceHistory(ctx context.Context, tokenID string, start, end time.Time, fidelityMinutes int) ([]domain.PricePoint, error)
}

// TradeFetcher retrieves every trade for a condition ID.
type TradeFetcher interface {
	Trades(ctx context.Context, conditionID string) ([]domain.Trade, error)
}

// EventFetcherConfig carries the fetch options for an event run.
type EventFetcherConfig struct {
	FidelityMinutes     int
	BucketSeconds       int64
	ExcludePlaceholders bool

	// StartDate and EndDate override the corresponding bound of the range
	// otherwise derived from market metadata. Zero means derive.
	StartDate time.Time
	EndDate   time.Time
}

// EventFetcher drives one full event collection: metadata lookup, placeholder
// filtering, shared range derivation, and per-market series fetches.
type EventFetcher struct {
	metadata MetadataFetcher
	prices   PriceFetcher
	trades   TradeFetcher
	cfg      EventFetcherConfig
	logger   *slog.Logger
}

// NewEventFetcher creates an EventFetcher. Non-positive fidelity or bucket
// width fall back to one hour.
func NewEventFetcher(metadata MetadataFetcher, prices PriceFetcher, trades TradeFetcher, cfg EventFetcherConfig, logger *slog.Logger) *EventFetcher {
	if cfg.FidelityMinutes <= 0 {
		cfg.FidelityMinutes = 60
	}
	if cfg.BucketSeconds <= 0 {
		cfg.BucketSeconds = 3600
	}
	return &EventFetcher{
		metadata: metadata,
		prices:   prices,
		trades:   trades,
		cfg:      cfg,
		logger:   logger,
	}
}

// Fetch collects the full dataset for the event behind rawURL. Failures up
// to and including range derivation abort the run; a failure inside one
// market's series fetch is logged, recorded on that market's entry, and the
// remaining markets still fetch. Markets keep response order.
func (f *EventFetcher) Fetch(ctx context.Context, rawURL string) (*domain.EventData, error) {
	slug, err := polymarket.EventSlug(rawURL)
	if err != nil {
		return nil, err
	}

	markets, err := f.metadata.EventMarkets(ctx, slug)
	if err != nil {
		return nil, err
	}

	if f.cfg.ExcludePlaceholders {
		before := len(markets)
		markets = FilterPlaceholders(markets)
		if dropped := before - len(markets); dropped > 0 {
			f.logger.InfoContext(ctx, "dropped placeholder markets",
				slog.String("slug", slug),
				slog.Int("dropped", dropped),
				slog.Int("kept", len(markets)),
			)
		}
	}
	if len(markets) == 0 {
		return nil, fmt.Errorf("pipeline: %w: every market of %s is a placeholder", domain.ErrNoMarkets, slug)
	}

	start, end, err := f.dateRange(markets)
	if err != nil {
		return nil, err
	}

	data := &domain.EventData{
		RunID:     uuid.New().String(),
		URL:       rawURL,
		Slug:      slug,
		StartDate: start,
		EndDate:   end,
		Markets:   make([]domain.MarketSeries, 0, len(markets)),
	}

	f.logger.InfoContext(ctx, "fetching event series",
		slog.String("slug", slug),
		slog.String("run_id", data.RunID),
		slog.Int("markets", len(markets)),
		slog.Time("start", start),
		slog.Time("end", end),
	)

	for _, m := range markets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: event fetch cancelled: %w", err)
		}

		series := f.fetchSeries(ctx, m, start, end)
		if series.Err != nil && !errors.Is(series.Err, context.Canceled) {
			f.logger.WarnContext(ctx, "market series fetch failed",
				slog.String("question", m.Question),
				slog.String("error", series.Err.Error()),
			)
		}
		data.Markets = append(data.Markets, series)
	}

	return data, nil
}

// dateRange resolves the shared fetch range. Explicit overrides win per
// bound; otherwise the range spans the earliest start to the latest end
// found across markets. A bound that neither an override nor any market can
// supply is an error.
func (f *EventFetcher) dateRange(markets []domain.Market) (time.Time, time.Time, error) {
	start := f.cfg.StartDate
	end := f.cfg.EndDate

	var minStart, maxEnd *time.Time
	for i := range markets {
		m := markets[i]
		if m.StartDate != nil && (minStart == nil || m.StartDate.Before(*minStart)) {
			minStart = m.StartDate
		}
		if m.EndDate != nil && (maxEnd == nil || m.EndDate.After(*maxEnd)) {
			maxEnd = m.EndDate
		}
	}

	if start.IsZero() {
		if minStart == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("pipeline: %w: no market carries a start date", domain.ErrNoMarkets)
		}
		start = *minStart
	}
	if end.IsZero() {
		if maxEnd == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("pipeline: %w: no market carries an end date", domain.ErrNoMarkets)
		}
		end = *maxEnd
	}

	return start, end, nil
}

// fetchSeries collects the price series and volume buckets for one market.
// The first failure is recorded on the entry; data fetched before it stays.
func (f *EventFetcher) fetchSeries(ctx context.Context, m domain.Market, start, end time.Time) domain.MarketSeries {
	series := domain.MarketSeries{Market: m}

	if tokenID := m.PrimaryTokenID(); tokenID == "" {
		series.Err = fmt.Errorf("pipeline: market %q has no outcome token", m.Question)
	} else if prices, err := f.prices.PriceHistory(ctx, tokenID, start, end, f.cfg.FidelityMinutes); err != nil {
		series.Err = err
	} else {
		series.Prices = prices
	}

	if m.ConditionID == "" {
		if series.Err == nil {
			series.Err = fmt.Errorf("pipeline: market %q has no condition id", m.Question)
		}
		return series
	}

	trades, err := f.trades.Trades(ctx, m.ConditionID)
	if err != nil {
		if series.Err == nil {
			series.Err = err
		}
		return series
	}
	series.Volumes = AggregateVolumes(trades, f.cfg.BucketSeconds)

	return series
}
