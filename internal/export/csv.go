package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"eventpulse/internal/domain"
)

// WriteEventCSVs writes one prices CSV and one volumes CSV per fetched
// market and returns the file paths. Markets whose series fetch failed are
// skipped; absence of their files marks the gap.
func (w *Writer) WriteEventCSVs(data *domain.EventData) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir %s: %w", w.dir, err)
	}

	var paths []string
	stamp := dateStamp()

	for i := range data.Markets {
		s := &data.Markets[i]
		if s.Err != nil {
			continue
		}

		base := fmt.Sprintf("event_%s_%s_m%02d", sanitizeName(data.Slug), stamp, i)

		pricesCSV, err := pricesToCSV(s.Prices)
		if err != nil {
			return nil, fmt.Errorf("export: market %d prices: %w", i, err)
		}
		path, err := w.writeFile(base+"_prices.csv", pricesCSV)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)

		volumesCSV, err := volumesToCSV(s.Volumes)
		if err != nil {
			return nil, fmt.Errorf("export: market %d volumes: %w", i, err)
		}
		path, err = w.writeFile(base+"_volumes.csv", volumesCSV)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteAttentionCSVs writes the pageview and revision series as CSV and
// returns the file paths.
func (w *Writer) WriteAttentionCSVs(data *domain.AttentionData) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir %s: %w", w.dir, err)
	}

	base := fmt.Sprintf("wiki_%s_%s", sanitizeName(data.Title), dateStamp())

	viewsCSV, err := pageviewsToCSV(data.Views)
	if err != nil {
		return nil, fmt.Errorf("export: pageviews: %w", err)
	}
	viewsPath, err := w.writeFile(base+"_views.csv", viewsCSV)
	if err != nil {
		return nil, err
	}

	revsCSV, err := revisionsToCSV(data.Revisions)
	if err != nil {
		return nil, fmt.Errorf("export: revisions: %w", err)
	}
	revsPath, err := w.writeFile(base+"_revisions.csv", revsCSV)
	if err != nil {
		return nil, err
	}

	return []string{viewsPath, revsPath}, nil
}

func (w *Writer) writeFile(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	w.logger.Info("wrote dataset",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
	)
	return path, nil
}

// pricesToCSV converts a price series to CSV bytes with a header row.
func pricesToCSV(points []domain.PricePoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"timestamp", "price"}); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, p := range points {
		row := []string{
			strconv.FormatInt(p.T, 10),
			strconv.FormatFloat(p.P, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// volumesToCSV converts volume buckets to CSV bytes with a header row.
func volumesToCSV(buckets []domain.VolumeBucket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"bucket_ts",
		"buy_volume",
		"sell_volume",
		"buy_count",
		"sell_count",
		"unknown_volume",
		"unknown_count",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, b := range buckets {
		row := []string{
			strconv.FormatInt(b.BucketTS, 10),
			strconv.FormatFloat(b.BuyVolume, 'f', -1, 64),
			strconv.FormatFloat(b.SellVolume, 'f', -1, 64),
			strconv.Itoa(b.BuyCount),
			strconv.Itoa(b.SellCount),
			strconv.FormatFloat(b.UnknownVolume, 'f', -1, 64),
			strconv.Itoa(b.UnknownCount),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// pageviewsToCSV converts daily pageview points to CSV bytes with a header
// row.
func pageviewsToCSV(points []domain.PageviewPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"timestamp", "article", "views"}); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, p := range points {
		row := []string{
			p.Timestamp,
			p.Article,
			strconv.FormatInt(p.Views, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// revisionsToCSV converts revision records to CSV bytes with a header row.
func revisionsToCSV(revs []domain.Revision) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"revid", "parentid", "timestamp", "user", "size", "comment"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range revs {
		row := []string{
			strconv.FormatInt(r.RevID, 10),
			strconv.FormatInt(r.ParentID, 10),
			r.Timestamp,
			r.User,
			strconv.FormatInt(r.Size, 10),
			r.Comment,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}
