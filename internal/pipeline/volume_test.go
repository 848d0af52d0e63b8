package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpulse/internal/domain"
)

func TestAggregateVolumes(t *testing.T) {
	trades := []domain.Trade{
		{Timestamp: 10, Size: 2.0, Side: domain.TradeSideBuy},
		{Timestamp: 15, Size: 3.0, Side: domain.TradeSideSell},
		{Timestamp: 65, Size: 1.5, Side: domain.TradeSideBuy},
	}

	buckets := AggregateVolumes(trades, 60)
	require.Len(t, buckets, 2)

	// Timestamps 10 and 15 floor to bucket 0, 65 to bucket 60.
	assert.Equal(t, domain.VolumeBucket{
		BucketTS:   0,
		BuyVolume:  2.0,
		SellVolume: 3.0,
		BuyCount:   1,
		SellCount:  1,
	}, buckets[0])
	assert.Equal(t, domain.VolumeBucket{
		BucketTS:  60,
		BuyVolume: 1.5,
		BuyCount:  1,
	}, buckets[1])
}

func TestAggregateVolumesSortedOutput(t *testing.T) {
	// Input arrives newest first, as the trades endpoint delivers it.
	trades := []domain.Trade{
		{Timestamp: 7200, Size: 1, Side: domain.TradeSideBuy},
		{Timestamp: 3600, Size: 1, Side: domain.TradeSideBuy},
		{Timestamp: 0, Size: 1, Side: domain.TradeSideBuy},
	}

	buckets := AggregateVolumes(trades, 3600)
	require.Len(t, buckets, 3)
	assert.Equal(t, int64(0), buckets[0].BucketTS)
	assert.Equal(t, int64(3600), buckets[1].BucketTS)
	assert.Equal(t, int64(7200), buckets[2].BucketTS)
}

func TestAggregateVolumesUnknownSide(t *testing.T) {
	trades := []domain.Trade{
		{Timestamp: 100, Size: 2.0, Side: domain.TradeSideBuy},
		{Timestamp: 110, Size: 4.0, Side: domain.TradeSideUnknown},
		{Timestamp: 120, Size: 8.0, Side: domain.TradeSide("MERGE")},
	}

	buckets := AggregateVolumes(trades, 3600)
	require.Len(t, buckets, 1)

	b := buckets[0]
	// Unrecognized sides accumulate separately from buy and sell totals.
	assert.Equal(t, 2.0, b.BuyVolume)
	assert.Equal(t, 1, b.BuyCount)
	assert.Equal(t, 0.0, b.SellVolume)
	assert.Equal(t, 0, b.SellCount)
	assert.Equal(t, 12.0, b.UnknownVolume)
	assert.Equal(t, 2, b.UnknownCount)
}

func TestAggregateVolumesExactBoundary(t *testing.T) {
	// A trade exactly on a bucket edge belongs to the bucket it opens.
	trades := []domain.Trade{
		{Timestamp: 60, Size: 1.0, Side: domain.TradeSideSell},
	}

	buckets := AggregateVolumes(trades, 60)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(60), buckets[0].BucketTS)
}

func TestAggregateVolumesEmptyAndInvalid(t *testing.T) {
	assert.Empty(t, AggregateVolumes(nil, 60))
	assert.Empty(t, AggregateVolumes([]domain.Trade{}, 60))
	assert.Nil(t, AggregateVolumes([]domain.Trade{{Timestamp: 1, Size: 1}}, 0))
	assert.Nil(t, AggregateVolumes([]domain.Trade{{Timestamp: 1, Size: 1}}, -5))
}
