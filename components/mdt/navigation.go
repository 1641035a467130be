package mdt

import (
	"context"
	"fmt"
)

// Navigate activates a page and loads its data. Unknown pages leave the
// state untouched.
func (c *Controller) Navigate(ctx context.Context, page Page) error {
	var navErr error
	if err := c.call(ctx, func() {
		if !c.activate(page) {
			navErr = fmt.Errorf("%w: %s", ErrUnknownPage, page)
		}
	}); err != nil {
		return err
	}
	return navErr
}

// Reload re-fetches the active page.
func (c *Controller) Reload(ctx context.Context) error {
	return c.call(ctx, func() { c.activate(c.page) })
}

func (c *Controller) activate(target Page) bool {
	page := NormalizePage(target)
	def, ok := c.pages[page]
	if !ok {
		c.log.Warnw("navigation to unknown page ignored", "page", target)
		return false
	}
	c.page = page
	c.surface.SetActivePage(page)
	c.telemetry.Record(c.runCtx, "mdt.navigate", map[string]any{"page": string(page)})
	c.load(page, def)
	return true
}

// pageResult is the decoded outcome of a page fetch.
type pageResult struct {
	stats *DashboardStats
	table *TableView
}

// load fetches page data off the loop. Only the response to the latest
// navigation is applied.
func (c *Controller) load(page Page, def PageDefinition) {
	c.navSeq++
	seq := c.navSeq
	if def.Domain == "" {
		return
	}
	client := c.client
	if client == nil {
		c.log.Warnw("no host client, skipping load", "page", page)
		return
	}
	ctx := c.runCtx
	go func() {
		var (
			result pageResult
			query  string
		)
		records, err := client.FetchData(ctx, def.Domain, query)
		if err == nil {
			result, err = decodePage(def, records)
		}
		err = asFetchError(def.Domain, query, err)
		c.post(func() { c.applyPage(seq, page, result, err) })
	}()
}

func decodePage(def PageDefinition, records RecordCollection) (pageResult, error) {
	switch def.ID {
	case PageDashboard:
		stats, err := records.Stats()
		return pageResult{stats: stats}, err
	case PageCitizens:
		list, err := records.Citizens()
		if err != nil {
			return pageResult{}, err
		}
		view := citizenTable(list)
		return pageResult{table: &view}, nil
	case PageVehicles:
		list, err := records.Vehicles()
		if err != nil {
			return pageResult{}, err
		}
		view := vehicleTable(list)
		return pageResult{table: &view}, nil
	case PageIncidents:
		list, err := records.Incidents()
		if err != nil {
			return pageResult{}, err
		}
		view := incidentTable(list)
		return pageResult{table: &view}, nil
	default:
		rows, err := records.Rows()
		if err != nil {
			return pageResult{}, err
		}
		view := genericTable(def, rows)
		return pageResult{table: &view}, nil
	}
}

func (c *Controller) applyPage(seq uint64, page Page, result pageResult, err error) {
	if seq != c.navSeq || page != c.page {
		c.log.Debugw("discarding stale page data", "page", page)
		c.telemetry.Record(c.runCtx, "mdt.fetch.stale", map[string]any{"page": string(page)})
		return
	}
	if err != nil {
		c.log.Warnw("page load failed", "page", page, "error", err)
		c.telemetry.Record(c.runCtx, "mdt.fetch.error", map[string]any{"page": string(page), "error": err.Error()})
		return
	}
	if result.stats != nil {
		c.renderDashboard(*result.stats)
	}
	if result.table != nil && c.surface.HasAnchor(TableAnchor(page)) {
		c.surface.RenderTable(*result.table)
	}
	c.telemetry.Record(c.runCtx, "mdt.fetch.applied", map[string]any{"page": string(page)})
}

func (c *Controller) renderDashboard(stats DashboardStats) {
	c.surface.RenderStats(statsView(stats, c.surface.HasAnchor))
	for _, spec := range dashboardCharts(stats) {
		c.mountChart(spec)
	}
}

// mountChart disposes the previous chart on the anchor before building the
// replacement.
func (c *Controller) mountChart(spec ChartSpec) {
	if !c.surface.HasAnchor(spec.Anchor) {
		return
	}
	if old, ok := c.mounted[spec.Anchor]; ok {
		old.Destroy()
		delete(c.mounted, spec.Anchor)
	}
	chart, err := c.charts.NewChart(spec)
	if err != nil {
		c.log.Warnw("chart render failed", "anchor", spec.Anchor, "error", err)
		return
	}
	c.mounted[spec.Anchor] = chart
	c.surface.MountChart(spec.Anchor, chart)
}
