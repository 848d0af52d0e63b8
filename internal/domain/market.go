package domain

import "time"

// TradeSide labels the aggressor side of a trade.
type TradeSide string

const (
	TradeSideBuy     TradeSide = "BUY"
	TradeSideSell    TradeSide = "SELL"
	TradeSideUnknown TradeSide = "UNKNOWN"
)

// Market represents one tradeable question inside a Polymarket event.
type Market struct {
	Question    string
	ConditionID string
	TokenIDs    []string // CLOB outcome token IDs, first entry is the primary outcome
	StartDate   *time.Time
	EndDate     *time.Time
}

// PrimaryTokenID returns the first outcome token ID, or "" when the market
// metadata carried none.
func (m Market) PrimaryTokenID() string {
	if len(m.TokenIDs) == 0 {
		return ""
	}
	return m.TokenIDs[0]
}

// PricePoint is one price sample as delivered by the CLOB history endpoint.
type PricePoint struct {
	T int64   `json:"t"` // unix seconds
	P float64 `json:"p"`
}

// Trade represents a validated raw trade event.
type Trade struct {
	Timestamp int64
	Size      float64
	Side      TradeSide
}

// VolumeBucket accumulates traded size over one fixed-width time window.
// Trades with an unrecognized side keep their own counters rather than
// polluting the buy or sell totals.
type VolumeBucket struct {
	BucketTS      int64   `json:"bucket_ts"` // window start, unix seconds
	BuyVolume     float64 `json:"buy_volume"`
	SellVolume    float64 `json:"sell_volume"`
	BuyCount      int     `json:"buy_count"`
	SellCount     int     `json:"sell_count"`
	UnknownVolume float64 `json:"unknown_volume"`
	UnknownCount  int     `json:"unknown_count"`
}

// MarketSeries is the per-market fetch outcome. Err is set when a series
// fetch failed; any data collected before the failure is kept, so callers
// can tell a failed fetch from a market that genuinely has no data.
type MarketSeries struct {
	Market  Market
	Prices  []PricePoint
	Volumes []VolumeBucket
	Err     error
}

// EventData is the complete dataset collected for one event URL.
type EventData struct {
	RunID     string
	URL       string
	Slug      string
	StartDate time.Time
	EndDate   time.Time
	Markets   []MarketSeries // response order, after placeholder filtering
}

// Series returns the entry whose market question matches exactly, or nil.
func (e *EventData) Series(question string) *MarketSeries {
	for i := range e.Markets {
		if e.Markets[i].Market.Question == question {
			return &e.Markets[i]
		}
	}
	return nil
}
