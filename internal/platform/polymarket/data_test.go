package polymarket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpulse/internal/domain"
)

const testConditionID = "0xdd22472e552920b8438158ea7238bfadfa4f736aa4cee91a6b86c39ead110917"

// tradePage builds n wire-format trade records starting at the given
// timestamp, alternating BUY/SELL.
func tradePage(startTs int64, n int) []map[string]any {
	page := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		side := "BUY"
		if i%2 == 1 {
			side = "SELL"
		}
		page = append(page, map[string]any{
			"timestamp": startTs + int64(i),
			"size":      1.5,
			"side":      side,
		})
	}
	return page
}

func TestTradesPagination(t *testing.T) {
	// Three pages: 500, 500, 240. The short page ends pagination.
	pageSizes := map[int]int{0: 500, 500: 500, 1000: 240}

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/trades", r.URL.Path)
		assert.Equal(t, testConditionID, r.URL.Query().Get("market"))
		assert.Equal(t, "500", r.URL.Query().Get("limit"))

		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)
		n, ok := pageSizes[offset]
		require.True(t, ok, "unexpected offset %d", offset)

		_ = json.NewEncoder(w).Encode(tradePage(1700000000+int64(offset), n))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, 0)

	trades, err := client.Trades(context.Background(), testConditionID)
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Len(t, trades, 1240)
	assert.Equal(t, int64(1700000000), trades[0].Timestamp)
	assert.Equal(t, domain.TradeSideBuy, trades[0].Side)
	assert.Equal(t, domain.TradeSideSell, trades[1].Side)
}

func TestTradesEmptyFirstPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, 0)

	trades, err := client.Trades(context.Background(), testConditionID)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Empty(t, trades)
}

func TestTradesShortFirstPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(tradePage(1700000000, 17))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, 0)

	trades, err := client.Trades(context.Background(), testConditionID)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Len(t, trades, 17)
}

func TestTradesValidation(t *testing.T) {
	// One well-formed record per quirk the Data API actually exhibits.
	const page = `[
		{"timestamp": 1700000000, "size": 2.5, "side": "BUY"},
		{"timestamp": "1700000060", "size": "12.5", "side": "sell"},
		{"timestamp": 1700000120, "size": 3.0},
		{"timestamp": 1700000180, "size": 1.0, "side": "MERGE"},
		{"size": 4.0, "side": "BUY"},
		{"timestamp": 1700000240, "side": "SELL"},
		{"timestamp": null, "size": 5.0, "side": "BUY"},
		{"timestamp": 1700000300, "size": "garbage", "side": "BUY"}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, 0)

	trades, err := client.Trades(context.Background(), testConditionID)
	require.NoError(t, err)

	// Records without a usable timestamp or size are dropped.
	require.Len(t, trades, 4)

	assert.Equal(t, domain.Trade{Timestamp: 1700000000, Size: 2.5, Side: domain.TradeSideBuy}, trades[0])
	// Numeric strings coerce; side comparison is case-insensitive.
	assert.Equal(t, domain.Trade{Timestamp: 1700000060, Size: 12.5, Side: domain.TradeSideSell}, trades[1])
	// Absent and unrecognized sides both map to UNKNOWN.
	assert.Equal(t, domain.TradeSideUnknown, trades[2].Side)
	assert.Equal(t, domain.TradeSideUnknown, trades[3].Side)
}

func TestTradesServerErrorAborts(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 2 {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(tradePage(1700000000, 500))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, 0)

	trades, err := client.Trades(context.Background(), testConditionID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAPIRequest)
	assert.Contains(t, err.Error(), "offset 500")
	assert.Nil(t, trades)
}

func TestTradesPageDelay(t *testing.T) {
	var stamps []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stamps = append(stamps, time.Now())
		if len(stamps) < 3 {
			_ = json.NewEncoder(w).Encode(tradePage(1700000000, 500))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	const delay = 30 * time.Millisecond
	client := NewDataClient(server.URL, 5*time.Second, delay)

	_, err := client.Trades(context.Background(), testConditionID)
	require.NoError(t, err)
	require.Len(t, stamps, 3)

	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		assert.GreaterOrEqual(t, gap, delay-5*time.Millisecond,
			"page %d arrived %v after page %d, want >= %v", i, gap, i-1, delay)
	}
}

func TestTradesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tradePage(1700000000, 500))
	}))
	defer server.Close()

	client := NewDataClient(server.URL, 5*time.Second, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// The second page would wait an hour on the limiter; cancellation must
	// cut that short.
	_, err := client.Trades(ctx, testConditionID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTradePageFixtureShape(t *testing.T) {
	// Guard the helper itself: a full page is exactly tradePageSize records
	// and round-trips through the wire DTO.
	page := tradePage(1700000000, tradePageSize)
	require.Len(t, page, tradePageSize)

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded []APITrade
	require.NoError(t, json.Unmarshal(raw, &decoded))

	trade, ok := decoded[0].ToDomainTrade()
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), trade.Timestamp)
	assert.Equal(t, 1.5, trade.Size)
}
