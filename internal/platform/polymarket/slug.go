package polymarket

import (
	"fmt"
	"strings"

	"eventpulse/internal/domain"
)

// eventMarker is the URL path segment that precedes an event slug.
const eventMarker = "/event/"

// EventSlug extracts the event slug from a shared Polymarket URL: everything
// after the last "/event/" marker, with any query string or fragment cut off
// and surrounding whitespace trimmed. A URL without the marker, or with
// nothing after it, is invalid.
func EventSlug(rawURL string) (string, error) {
	idx := strings.LastIndex(rawURL, eventMarker)
	if idx < 0 {
		return "", fmt.Errorf("polymarket: %w: no %q segment in %q", domain.ErrInvalidURL, eventMarker, rawURL)
	}

	slug := rawURL[idx+len(eventMarker):]
	for _, sep := range []byte{'?', '#'} {
		if i := strings.IndexByte(slug, sep); i >= 0 {
			slug = slug[:i]
		}
	}
	slug = strings.TrimSpace(slug)

	if slug == "" {
		return "", fmt.Errorf("polymarket: %w: empty slug in %q", domain.ErrInvalidURL, rawURL)
	}
	return slug, nil
}
