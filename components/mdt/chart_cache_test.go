package mdt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdt/pkg/clock"
)

func TestChartCacheStoresEntry(t *testing.T) {
	cache := NewChartCache(time.Minute, clock.Fake(time.Unix(0, 0)))
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestChartCacheExpires(t *testing.T) {
	clk := clock.Fake(time.Unix(0, 0))
	cache := NewChartCache(time.Minute, clk)
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	clk.Advance(time.Minute + time.Second)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartCacheDisabledWithoutTTL(t *testing.T) {
	cache := NewChartCache(0, nil)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestSpecHashDependsOnSeries(t *testing.T) {
	a := ChartSpec{Anchor: AnchorCrimeChart, Kind: ChartLine, Labels: []string{"Jan"}, Values: []float64{1}}
	b := a
	b.Values = []float64{2}
	assert.Equal(t, specHash(a), specHash(a))
	assert.NotEqual(t, specHash(a), specHash(b))
}
