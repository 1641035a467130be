package mdt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/google/uuid"
)

const defaultChartHeight = "300px"

// ChartKind selects the chart family.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// ChartSpec describes one chart bound to an anchor.
type ChartSpec struct {
	Anchor Anchor    `json:"anchor"`
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Series string    `json:"series"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Chart is a live chart instance owned by the controller.
type Chart interface {
	ID() string
	Spec() ChartSpec
	HTML() string
	Destroy()
	Destroyed() bool
}

// ChartRenderer builds chart instances.
type ChartRenderer interface {
	NewChart(spec ChartSpec) (Chart, error)
}

// dashboardCharts maps dashboard stats to the two dashboard charts.
func dashboardCharts(stats DashboardStats) []ChartSpec {
	return []ChartSpec{
		{
			Anchor: AnchorCrimeChart,
			Kind:   ChartLine,
			Title:  "Crime Reports",
			Series: "Crime Reports",
			Labels: stats.CrimeStats.Labels,
			Values: stats.CrimeStats.Data,
		},
		{
			Anchor: AnchorResponseChart,
			Kind:   ChartBar,
			Title:  "Response Time (minutes)",
			Series: "Response Time (minutes)",
			Labels: stats.ResponseTimes.Labels,
			Values: stats.ResponseTimes.Data,
		},
	}
}

// EChartsRenderer renders server-side chart markup with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsOption customizes the renderer.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if strings.TrimSpace(theme) != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer with a five minute cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: NewChartCache(5*time.Minute, nil),
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewChart renders the spec and wraps it in a disposable instance.
func (r *EChartsRenderer) NewChart(spec ChartSpec) (Chart, error) {
	if len(spec.Labels) != len(spec.Values) {
		return nil, fmt.Errorf("mdt: chart %s has %d labels and %d values", spec.Anchor, len(spec.Labels), len(spec.Values))
	}
	renderFn := func() (string, error) {
		return r.render(spec)
	}
	var (
		html string
		err  error
	)
	if r.cache != nil {
		key := fmt.Sprintf("%s:%s:%s", spec.Anchor, spec.Kind, specHash(spec))
		html, err = r.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}
	return &renderedChart{id: uuid.NewString(), spec: spec, html: html}, nil
}

func (r *EChartsRenderer) render(spec ChartSpec) (string, error) {
	switch spec.Kind {
	case ChartLine:
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions(spec.Title)...)
		line.SetXAxis(spec.Labels)
		line.AddSeries(spec.Series, toLineData(spec.Labels, spec.Values))
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case ChartBar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(spec.Title)...)
		bar.SetXAxis(spec.Labels)
		bar.AddSeries(spec.Series, toBarData(spec.Labels, spec.Values))
		return renderChart(bar)
	default:
		return "", fmt.Errorf("mdt: unsupported chart kind: %s", spec.Kind)
	}
}

func (r *EChartsRenderer) globalChartOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toLineData(labels []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, value := range values {
		data[i] = opts.LineData{Name: labels[i], Value: value}
	}
	return data
}

func toBarData(labels []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, value := range values {
		data[i] = opts.BarData{Name: labels[i], Value: value}
	}
	return data
}

type renderedChart struct {
	id        string
	spec      ChartSpec
	html      string
	destroyed atomic.Bool
}

func (c *renderedChart) ID() string      { return c.id }
func (c *renderedChart) Spec() ChartSpec { return c.spec }
func (c *renderedChart) HTML() string    { return c.html }
func (c *renderedChart) Destroy()        { c.destroyed.Store(true) }
func (c *renderedChart) Destroyed() bool { return c.destroyed.Load() }
