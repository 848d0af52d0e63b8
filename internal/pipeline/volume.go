package pipeline

import (
	"sort"

	"eventpulse/internal/domain"
)

// AggregateVolumes buckets trades into fixed-width windows keyed by
// bucketTS = ts - (ts mod width), accumulating size and count per side.
// Trades whose side is neither BUY nor SELL land in the unknown counters.
// Buckets come back sorted by window start ascending. A non-positive width
// returns nil.
func AggregateVolumes(trades []domain.Trade, widthSeconds int64) []domain.VolumeBucket {
	if widthSeconds <= 0 {
		return nil
	}

	buckets := make(map[int64]*domain.VolumeBucket)
	for _, t := range trades {
		key := t.Timestamp - t.Timestamp%widthSeconds
		b, ok := buckets[key]
		if !ok {
			b = &domain.VolumeBucket{BucketTS: key}
			buckets[key] = b
		}
		switch t.Side {
		case domain.TradeSideBuy:
			b.BuyVolume += t.Size
			b.BuyCount++
		case domain.TradeSideSell:
			b.SellVolume += t.Size
			b.SellCount++
		default:
			b.UnknownVolume += t.Size
			b.UnknownCount++
		}
	}

	out := make([]domain.VolumeBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketTS < out[j].BucketTS })
	return out
}
