package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"eventpulse/internal/domain"
)

// flexFloat unmarshals from a JSON number or numeric string so Data API
// responses work whether "size" is sent as 12.5 or "12.5". OK stays false
// for null, absent, or unparseable values; decoding never fails the page.
type flexFloat struct {
	Val float64
	OK  bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	f.OK = false
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Val, f.OK = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	f.Val, f.OK = n, true
	return nil
}

// flexInt64 is flexFloat's integer counterpart; fractional input truncates.
type flexInt64 struct {
	Val int64
	OK  bool
}

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	f.OK = false
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Val, f.OK = int64(n), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	f.Val, f.OK = int64(n), true
	return nil
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APIEvent represents an event as returned by the Polymarket Gamma API.
// An event groups one or more related markets.
type APIEvent struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Slug    string      `json:"slug"`
	Markets []APIMarket `json:"markets"`
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
type APIMarket struct {
	ID           string `json:"id"`
	Question     string `json:"question"`
	ConditionID  string `json:"conditionId"`
	Slug         string `json:"slug"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	ClosedTime   string `json:"closedTime"`   // set once the market resolves
	ClobTokenIDs string `json:"clobTokenIds"` // JSON-encoded: e.g. "[\"123\",\"456\"]"
}

// ToDomainMarket converts a Gamma APIMarket to a domain.Market. The token ID
// list is double-encoded JSON; dates go through the shared normalizer, with
// closedTime preferred over endDate for the close bound. Missing or
// unparseable dates leave the pointers nil.
func (m *APIMarket) ToDomainMarket() domain.Market {
	dm := domain.Market{
		Question:    m.Question,
		ConditionID: m.ConditionID,
	}

	if m.ClobTokenIDs != "" {
		var ids []string
		if err := json.Unmarshal([]byte(m.ClobTokenIDs), &ids); err == nil {
			dm.TokenIDs = ids
		}
	}

	dm.StartDate = parseDatePtr(m.StartDate)
	dm.EndDate = parseDatePtr(m.ClosedTime)
	if dm.EndDate == nil {
		dm.EndDate = parseDatePtr(m.EndDate)
	}

	return dm
}

func parseDatePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// --------------------------------------------------------------------------
// CLOB API DTOs
// --------------------------------------------------------------------------

// priceHistoryResponse wraps the prices-history payload. Points pass through
// with their wire field names intact.
type priceHistoryResponse struct {
	History []domain.PricePoint `json:"history"`
}

// --------------------------------------------------------------------------
// Data API DTOs
// --------------------------------------------------------------------------

// APITrade represents one trade record from the Data API.
type APITrade struct {
	Timestamp flexInt64 `json:"timestamp"`
	Size      flexFloat `json:"size"`
	Side      string    `json:"side"` // "BUY" or "SELL", may be absent
}

// ToDomainTrade validates the record. The second return is false when the
// timestamp or size is missing; such records are dropped upstream. An absent
// or unrecognized side maps to TradeSideUnknown.
func (t *APITrade) ToDomainTrade() (domain.Trade, bool) {
	if !t.Timestamp.OK || !t.Size.OK {
		return domain.Trade{}, false
	}

	side := domain.TradeSideUnknown
	switch strings.ToUpper(t.Side) {
	case "BUY":
		side = domain.TradeSideBuy
	case "SELL":
		side = domain.TradeSideSell
	}

	return domain.Trade{
		Timestamp: t.Timestamp.Val,
		Size:      t.Size.Val,
		Side:      side,
	}, true
}
