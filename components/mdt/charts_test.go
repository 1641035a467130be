package mdt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	calls int
}

func (c *countingCache) GetOrRender(_ string, render func() (string, error)) (string, error) {
	c.calls++
	return render()
}

func TestEChartsRendererBuildsDashboardCharts(t *testing.T) {
	var stats DashboardStats
	require.NoError(t, json.Unmarshal([]byte(dashboardFixture), &stats))
	cache := &countingCache{}
	renderer := NewEChartsRenderer(WithChartCache(cache), WithChartTheme("dark"))

	specs := dashboardCharts(stats)
	require.Len(t, specs, 2)

	line, err := renderer.NewChart(specs[0])
	require.NoError(t, err)
	assert.Contains(t, line.HTML(), "echarts")
	assert.Contains(t, line.HTML(), "Crime Reports")
	assert.NotEmpty(t, line.ID())

	bar, err := renderer.NewChart(specs[1])
	require.NoError(t, err)
	assert.Contains(t, bar.HTML(), "Response Time (minutes)")
	assert.NotEqual(t, line.ID(), bar.ID())
	assert.Equal(t, 2, cache.calls)

	assert.False(t, line.Destroyed())
	line.Destroy()
	line.Destroy()
	assert.True(t, line.Destroyed())
}

func TestEChartsRendererRejectsBadSpecs(t *testing.T) {
	renderer := NewEChartsRenderer(WithChartCache(nil))

	_, err := renderer.NewChart(ChartSpec{Kind: ChartLine, Labels: []string{"a"}, Values: nil})
	assert.Error(t, err)

	_, err = renderer.NewChart(ChartSpec{Kind: "pie"})
	assert.Error(t, err)
}

func TestEChartsRendererCachesIdenticalSeries(t *testing.T) {
	renderer := NewEChartsRenderer()
	spec := ChartSpec{Anchor: AnchorCrimeChart, Kind: ChartLine, Title: "Crime Reports", Labels: []string{"Jan"}, Values: []float64{12}}

	first, err := renderer.NewChart(spec)
	require.NoError(t, err)
	second, err := renderer.NewChart(spec)
	require.NoError(t, err)

	assert.Equal(t, first.HTML(), second.HTML())
	assert.NotEqual(t, first.ID(), second.ID())
}
