// Package export renders fetched datasets to local files and optionally
// mirrors them into object storage.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventpulse/internal/domain"
)

// eventDoc is the JSON document written for one event run. Per-market errors
// flatten to strings so a failed fetch survives serialization.
type eventDoc struct {
	RunID     string            `json:"run_id"`
	URL       string            `json:"url"`
	Slug      string            `json:"slug"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	FetchedAt time.Time         `json:"fetched_at"`
	Markets   []marketSeriesDoc `json:"markets"`
}

type marketSeriesDoc struct {
	Question    string                `json:"question"`
	ConditionID string                `json:"condition_id"`
	TokenIDs    []string              `json:"token_ids"`
	Error       string                `json:"error,omitempty"`
	Prices      []domain.PricePoint   `json:"prices"`
	Volumes     []domain.VolumeBucket `json:"volumes"`
}

// attentionDoc is the JSON document written for one wiki attention run.
type attentionDoc struct {
	RunID     string                 `json:"run_id"`
	Title     string                 `json:"title"`
	StartDate time.Time              `json:"start_date"`
	EndDate   time.Time              `json:"end_date"`
	FetchedAt time.Time              `json:"fetched_at"`
	Views     []domain.PageviewPoint `json:"views"`
	Revisions []domain.Revision      `json:"revisions"`
}

// Writer writes fetched datasets into the output directory, creating it on
// first use. File names carry the entity identifier and the run date.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger,
	}
}

// WriteEventJSON writes the full event dataset as one indented JSON document
// and returns the file path.
func (w *Writer) WriteEventJSON(data *domain.EventData) (string, error) {
	doc := eventDoc{
		RunID:     data.RunID,
		URL:       data.URL,
		Slug:      data.Slug,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		FetchedAt: time.Now().UTC(),
		Markets:   make([]marketSeriesDoc, 0, len(data.Markets)),
	}
	for i := range data.Markets {
		s := &data.Markets[i]
		md := marketSeriesDoc{
			Question:    s.Market.Question,
			ConditionID: s.Market.ConditionID,
			TokenIDs:    s.Market.TokenIDs,
			Prices:      s.Prices,
			Volumes:     s.Volumes,
		}
		if s.Err != nil {
			md.Error = s.Err.Error()
		}
		doc.Markets = append(doc.Markets, md)
	}

	name := fmt.Sprintf("event_%s_%s.json", sanitizeName(data.Slug), dateStamp())
	return w.writeJSON(name, doc)
}

// WriteAttentionJSON writes the attention dataset as one indented JSON
// document and returns the file path.
func (w *Writer) WriteAttentionJSON(data *domain.AttentionData) (string, error) {
	doc := attentionDoc{
		RunID:     data.RunID,
		Title:     data.Title,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
		FetchedAt: time.Now().UTC(),
		Views:     data.Views,
		Revisions: data.Revisions,
	}

	name := fmt.Sprintf("wiki_%s_%s.json", sanitizeName(data.Title), dateStamp())
	return w.writeJSON(name, doc)
}

func (w *Writer) writeJSON(name string, doc any) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create output dir %s: %w", w.dir, err)
	}

	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}

	w.logger.Info("wrote dataset",
		slog.String("path", path),
		slog.Int("bytes", len(buf)),
	)
	return path, nil
}

// dateStamp is the run-date portion of every exported file name.
func dateStamp() string {
	return time.Now().UTC().Format("2006-01-02")
}

// sanitizeName reduces an identifier to filesystem-safe characters.
func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}
