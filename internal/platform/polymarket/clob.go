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

	"eventpulse/internal/domain"
)

// priceWindow caps the span covered by a single prices-history request; the
// CLOB API rejects longer ranges.
const priceWindow = 15 * 24 * time.Hour

// ClobClient is the REST client for the Polymarket CLOB API, used here for
// its price-history endpoint. No authentication is required for reads.
type ClobClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClobClient creates a new CLOB API client.
//
// baseURL is the CLOB API root, e.g. "https://clob.polymarket.com".
func NewClobClient(baseURL string, timeout time.Duration) *ClobClient {
	return &ClobClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PriceHistory fetches the full price series for an outcome token between
// start and end by issuing one request per 15-day window. The cursor always
// advances a full window, whatever each response contains; a failed window
// aborts the whole fetch and no partial series is returned.
func (c *ClobClient) PriceHistory(ctx context.Context, tokenID string, start, end time.Time, fidelityMinutes int) ([]domain.PricePoint, error) {
	var points []domain.PricePoint

	for cur := start; cur.Before(end); cur = cur.Add(priceWindow) {
		windowEnd := cur.Add(priceWindow)
		if windowEnd.After(end) {
			windowEnd = end
		}

		params := url.Values{}
		params.Set("market", tokenID)
		params.Set("startTs", strconv.FormatInt(cur.Unix(), 10))
		params.Set("endTs", strconv.FormatInt(windowEnd.Unix(), 10))
		params.Set("fidelity", strconv.Itoa(fidelityMinutes))

		body, err := c.doGet(ctx, "/prices-history?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("polymarket/clob: price history %s window %d-%d: %w",
				tokenID, cur.Unix(), windowEnd.Unix(), err)
		}

		var page priceHistoryResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("polymarket/clob: decode price history: %w", err)
		}

		points = append(points, page.History...)
	}

	return points, nil
}

// doGet sends an unauthenticated GET request to the CLOB API.
func (c *ClobClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
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

// checkHTTPStatus maps non-2xx status codes to the shared request error.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return fmt.Errorf("%w: HTTP %d: %s", domain.ErrAPIRequest, statusCode, string(body))
}
