package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"eventpulse/internal/domain"
)

// tradePageSize is the page size requested from the trades endpoint. A page
// shorter than this is the last page.
const tradePageSize = 500

// DataClient is the REST client for the Polymarket Data API, which serves
// raw trade history per market.
type DataClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDataClient creates a new Data API client.
//
// baseURL is the Data API root, e.g. "https://data-api.polymarket.com".
// pageDelay is the minimum spacing between successive page requests; zero or
// negative disables pacing.
func NewDataClient(baseURL string, timeout, pageDelay time.Duration) *DataClient {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if pageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(pageDelay), 1)
	}
	return &DataClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// Trades pages through every trade for the given condition ID, oldest page
// first. An empty page ends pagination, a short page is the last one.
// Records missing a timestamp or size are dropped; an absent side maps to
// TradeSideUnknown.
func (d *DataClient) Trades(ctx context.Context, conditionID string) ([]domain.Trade, error) {
	var trades []domain.Trade
	offset := 0

	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("polymarket/data: rate limit wait: %w", err)
		}

		params := url.Values{}
		params.Set("market", conditionID)
		params.Set("limit", strconv.Itoa(tradePageSize))
		params.Set("offset", strconv.Itoa(offset))

		body, err := d.doGet(ctx, "/trades?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("polymarket/data: trades for %s at offset %d: %w", conditionID, offset, err)
		}

		var page []APITrade
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("polymarket/data: decode trades: %w", err)
		}

		if len(page) == 0 {
			break
		}

		for i := range page {
			if t, ok := page[i].ToDomainTrade(); ok {
				trades = append(trades, t)
			}
		}

		if len(page) < tradePageSize {
			break
		}
		offset += tradePageSize
	}

	return trades, nil
}

// doGet sends an unauthenticated GET request to the Data API.
func (d *DataClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrAPIRequest, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", domain.ErrAPIRequest)
	}

	return body, nil
}
