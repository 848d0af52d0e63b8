package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventpulse/internal/domain"
)

// compactDate is the YYYYMMDD form the pageviews path expects.
const compactDate = "20060102"

// Client fetches pageview and revision-history series from the Wikimedia
// APIs. Both endpoints are public but require an identifying User-Agent.
type Client struct {
	restURL    string
	apiURL     string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a Wikipedia client.
//
// restURL is the Wikimedia REST root, e.g. "https://wikimedia.org/api/rest_v1".
// apiURL is the MediaWiki site root, e.g. "https://en.wikipedia.org".
func NewClient(restURL, apiURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		restURL:   restURL,
		apiURL:    apiURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NormalizeTitle turns a page title or article URL into the canonical
// underscore form used by every Wikimedia endpoint. A full URL is reduced to
// whatever follows its last "/wiki/" segment.
func NormalizeTitle(input string) string {
	title := strings.TrimSpace(input)
	if idx := strings.LastIndex(title, "/wiki/"); idx >= 0 {
		title = title[idx+len("/wiki/"):]
	}
	return strings.ReplaceAll(title, " ", "_")
}

// Pageviews returns daily per-article view counts for the title between
// start and end inclusive. Items pass through with their wire fields intact.
func (c *Client) Pageviews(ctx context.Context, title string, start, end time.Time) ([]domain.PageviewPoint, error) {
	article := url.PathEscape(NormalizeTitle(title))
	path := fmt.Sprintf("/metrics/pageviews/per-article/en.wikipedia/all-access/all-agents/%s/daily/%s/%s",
		article, start.UTC().Format(compactDate), end.UTC().Format(compactDate))

	body, err := c.doGet(ctx, c.restURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: pageviews for %s: %w", title, err)
	}

	var resp pageviewsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: decode pageviews: %w", err)
	}

	return resp.Items, nil
}

// Revisions returns the page's edit history between start and end, newest
// first as the API delivers it. The window covers both days fully. A page
// with no revisions in range yields an empty slice, not an error.
func (c *Client) Revisions(ctx context.Context, title string, start, end time.Time) ([]domain.Revision, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", NormalizeTitle(title))
	params.Set("prop", "revisions")
	params.Set("rvprop", "ids|timestamp|user|comment|size")
	params.Set("rvstart", end.UTC().Format("2006-01-02")+"T23:59:59Z")
	params.Set("rvend", start.UTC().Format("2006-01-02")+"T00:00:00Z")
	params.Set("rvlimit", "500")
	params.Set("format", "json")

	body, err := c.doGet(ctx, c.apiURL+"/w/api.php", params)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: revisions for %s: %w", title, err)
	}

	var resp revisionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: decode revisions: %w", err)
	}

	for _, page := range resp.Query.Pages {
		return page.Revisions, nil
	}
	return nil, nil
}

// doGet sends a GET request with the client's User-Agent attached.
func (c *Client) doGet(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

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
