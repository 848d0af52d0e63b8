package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventpulse/internal/domain"
)

// Archiver mirrors exported files into object storage under
// {prefix}/{kind}/{run-date}/{filename}. The local file is the source of
// truth; an upload failure never removes or rewrites it.
type Archiver struct {
	writer domain.BlobWriter
	prefix string
	logger *slog.Logger
}

// NewArchiver creates an Archiver uploading through the given BlobWriter.
func NewArchiver(writer domain.BlobWriter, prefix string, logger *slog.Logger) *Archiver {
	return &Archiver{
		writer: writer,
		prefix: prefix,
		logger: logger,
	}
}

// Archive uploads the file at path under the given kind ("events", "wiki").
func (a *Archiver) Archive(ctx context.Context, kind, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("export: open %s for archive: %w", path, err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s/%s/%s", a.prefix, kind, dateStamp(), filepath.Base(path))

	contentType := "application/json"
	if strings.HasSuffix(path, ".csv") {
		contentType = "text/csv"
	}

	started := time.Now()
	if err := a.writer.Put(ctx, key, f, contentType); err != nil {
		return fmt.Errorf("export: archive %s: %w", path, err)
	}

	a.logger.Info("archived dataset",
		slog.String("key", key),
		slog.Duration("took", time.Since(started)),
	)
	return nil
}
