package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpulse/internal/platform/polymarket"
)

// TestEventPipelineEndToEnd drives the orchestrator through real HTTP
// clients against stub servers: three markets in metadata, one of them a
// placeholder, price history served in 15-day windows, trades paginated.
func TestEventPipelineEndToEnd(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(40 * 24 * time.Hour)

	gammaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fed-decision-march", r.URL.Query().Get("slug"))
		fixture := fmt.Sprintf(`[{"id":"10","title":"Fed decision","slug":"fed-decision-march","markets":[
			{"question":"Will the Fed cut rates in March?","conditionId":"0xcut",
			 "startDate":%q,"endDate":%q,"clobTokenIds":"[\"tok-cut\",\"tok-cut-no\"]"},
			{"question":"Will the Fed hold rates in March?","conditionId":"0xhold",
			 "startDate":%q,"endDate":%q,"clobTokenIds":"[\"tok-hold\"]"},
			{"question":"Will Candidate A win?","conditionId":"0xph",
			 "startDate":%q,"endDate":%q,"clobTokenIds":"[\"tok-ph\"]"}
		]}]`,
			start.Format(time.RFC3339), end.Format(time.RFC3339),
			start.Format(time.RFC3339), end.Format(time.RFC3339),
			start.Format(time.RFC3339), end.Format(time.RFC3339))
		_, _ = w.Write([]byte(fixture))
	}))
	defer gammaSrv.Close()

	var priceRequests int
	clobSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		priceRequests++
		startTs, _ := strconv.ParseInt(r.URL.Query().Get("startTs"), 10, 64)
		_, _ = fmt.Fprintf(w, `{"history":[{"t":%d,"p":0.42}]}`, startTs)
	}))
	defer clobSrv.Close()

	var tradeRequests int
	dataSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tradeRequests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset > 0 {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		page := make([]map[string]any, 0, 500)
		for i := 0; i < 500; i++ {
			side := "BUY"
			if i%2 == 1 {
				side = "SELL"
			}
			page = append(page, map[string]any{
				"timestamp": start.Unix() + int64(i*60),
				"size":      1.0,
				"side":      side,
			})
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer dataSrv.Close()

	gamma := polymarket.NewGammaClient(gammaSrv.URL, 5*time.Second)
	clob := polymarket.NewClobClient(clobSrv.URL, 5*time.Second)
	data := polymarket.NewDataClient(dataSrv.URL, 5*time.Second, 0)

	f := NewEventFetcher(gamma, clob, data, EventFetcherConfig{
		FidelityMinutes:     60,
		BucketSeconds:       3600,
		ExcludePlaceholders: true,
	}, createTestLogger())

	result, err := f.Fetch(context.Background(), "https://polymarket.com/event/fed-decision-march?tid=42")
	require.NoError(t, err)

	// Exactly the two real markets survive, each with prices and volumes.
	require.Len(t, result.Markets, 2)
	assert.Nil(t, result.Series("Will Candidate A win?"))

	for _, question := range []string{
		"Will the Fed cut rates in March?",
		"Will the Fed hold rates in March?",
	} {
		series := result.Series(question)
		require.NotNil(t, series, "missing series for %q", question)
		require.NoError(t, series.Err)
		// One point per 15-day window over 40 days.
		assert.Len(t, series.Prices, 3, "prices for %q", question)
		assert.NotEmpty(t, series.Volumes, "volumes for %q", question)
	}

	// 2 markets x 3 windows of price history.
	assert.Equal(t, 6, priceRequests)
	// 2 markets x (one full page + one empty page).
	assert.Equal(t, 4, tradeRequests)

	// 500 one-unit trades spaced a minute apart spread across ~9 hourly
	// buckets; totals preserve every trade once.
	cut := result.Series("Will the Fed cut rates in March?")
	var totalCount int
	var totalVolume float64
	for _, b := range cut.Volumes {
		totalCount += b.BuyCount + b.SellCount + b.UnknownCount
		totalVolume += b.BuyVolume + b.SellVolume + b.UnknownVolume
	}
	assert.Equal(t, 500, totalCount)
	assert.Equal(t, 500.0, totalVolume)
	for i := 1; i < len(cut.Volumes); i++ {
		assert.Greater(t, cut.Volumes[i].BucketTS, cut.Volumes[i-1].BucketTS)
	}
}
