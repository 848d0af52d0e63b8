package wikipedia

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests replay real Wikimedia traffic from cassettes. They skip when
// the cassette is absent unless RECORD_CASSETTES=1, which hits the live API
// and records it.

func newRecorder(t *testing.T, name string) *recorder.Recorder {
	t.Helper()

	cassette := filepath.Join("testdata", "cassettes", name)
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })
	return r
}

func TestPageviewsRecorded(t *testing.T) {
	r := newRecorder(t, "pageviews_kamala_harris")

	client := NewClient("https://wikimedia.org/api/rest_v1", "https://en.wikipedia.org",
		testUserAgent, 30*time.Second)
	client.httpClient = &http.Client{Transport: r, Timeout: 30 * time.Second}

	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)

	points, err := client.Pageviews(context.Background(), "Kamala Harris", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	assert.Equal(t, "Kamala_Harris", points[0].Article)
	assert.Equal(t, "daily", points[0].Granularity)
	assert.Greater(t, points[0].Views, int64(0))
}

func TestRevisionsRecorded(t *testing.T) {
	r := newRecorder(t, "revisions_kamala_harris")

	client := NewClient("https://wikimedia.org/api/rest_v1", "https://en.wikipedia.org",
		testUserAgent, 30*time.Second)
	client.httpClient = &http.Client{Transport: r, Timeout: 30 * time.Second}

	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)

	revs, err := client.Revisions(context.Background(), "Kamala Harris", start, end)
	require.NoError(t, err)
	require.NotEmpty(t, revs)

	assert.NotZero(t, revs[0].RevID)
	assert.NotEmpty(t, revs[0].Timestamp)
}
