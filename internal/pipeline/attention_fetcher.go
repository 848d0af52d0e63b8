package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventpulse/internal/domain"
	"eventpulse/internal/platform/wikipedia"
)

// PageviewFetcher retrieves daily view counts for a page.
type PageviewFetcher interface {
	Pageviews(ctx context.Context, title string, start, end time.Time) ([]domain.PageviewPoint, error)
}

// RevisionFetcher retrieves edit history for a page.
type RevisionFetcher interface {
	Revisions(ctx context.Context, title string, start, end time.Time) ([]domain.Revision, error)
}

// AttentionFetcher collects both attention series for a wiki page over one
// window: daily pageviews and revision history.
type AttentionFetcher struct {
	views  PageviewFetcher
	revs   RevisionFetcher
	logger *slog.Logger
}

// NewAttentionFetcher creates an AttentionFetcher.
func NewAttentionFetcher(views PageviewFetcher, revs RevisionFetcher, logger *slog.Logger) *AttentionFetcher {
	return &AttentionFetcher{
		views:  views,
		revs:   revs,
		logger: logger,
	}
}

// Fetch collects pageviews and revisions for the page between start and end,
// both days inclusive. Either series failing fails the whole fetch.
func (f *AttentionFetcher) Fetch(ctx context.Context, title string, start, end time.Time) (*domain.AttentionData, error) {
	normalized := wikipedia.NormalizeTitle(title)

	views, err := f.views.Pageviews(ctx, normalized, start, end)
	if err != nil {
		return nil, fmt.Errorf("pipeline: attention fetch for %s: %w", normalized, err)
	}

	revisions, err := f.revs.Revisions(ctx, normalized, start, end)
	if err != nil {
		return nil, fmt.Errorf("pipeline: attention fetch for %s: %w", normalized, err)
	}

	data := &domain.AttentionData{
		RunID:     uuid.New().String(),
		Title:     normalized,
		StartDate: start,
		EndDate:   end,
		Views:     views,
		Revisions: revisions,
	}

	f.logger.InfoContext(ctx, "attention fetch complete",
		slog.String("title", normalized),
		slog.String("run_id", data.RunID),
		slog.Int("view_days", len(views)),
		slog.Int("revisions", len(revisions)),
	)

	return data, nil
}
