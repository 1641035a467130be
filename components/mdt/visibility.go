package mdt

import (
	"context"
)

// Close hides the dashboard at the user's request and tells the host so it
// can release input focus.
func (c *Controller) Close(ctx context.Context) error {
	return c.call(ctx, c.closeByUser)
}

func (c *Controller) closeByUser() {
	c.hide()
	c.telemetry.Record(c.runCtx, "mdt.close", nil)
	client := c.client
	if client == nil {
		return
	}
	ctx := c.runCtx
	go func() {
		if err := client.Close(ctx); err != nil {
			c.log.Warnw("close request failed", "error", err)
		}
	}()
}

// open shows the loading indicator and reveals the dashboard once the settle
// delay elapses. A repeated open while loading or shown only updates the
// session.
func (c *Controller) open(player *Session) {
	if player != nil {
		c.session = *player
		c.renderUser()
	}
	if c.visibility != VisibilityHidden {
		return
	}
	c.visibility = VisibilityLoading
	c.setLoading(true)
	c.settleGen++
	gen := c.settleGen
	c.settleTimer = c.clock.AfterFunc(c.settleDelay, func() {
		c.post(func() { c.settle(gen) })
	})
	c.telemetry.Record(c.runCtx, "mdt.open", map[string]any{"session": player != nil})
}

func (c *Controller) settle(gen uint64) {
	if gen != c.settleGen || c.visibility != VisibilityLoading {
		return
	}
	c.settleTimer = nil
	c.visibility = VisibilityShown
	c.setLoading(false)
	if c.surface.HasAnchor(AnchorContainer) {
		c.surface.ApplyStyle(ShownStyle())
	}
	c.log.Debugw("mdt shown")
}

// hide cancels a pending settle and forces the hidden style.
func (c *Controller) hide() {
	if c.settleTimer != nil {
		c.settleTimer.Stop()
		c.settleTimer = nil
	}
	c.settleGen++
	c.visibility = VisibilityHidden
	c.setLoading(false)
	if c.surface.HasAnchor(AnchorContainer) {
		c.surface.ApplyStyle(HiddenStyle())
	}
}

func (c *Controller) setLoading(visible bool) {
	if c.surface.HasAnchor(AnchorLoading) {
		c.surface.SetLoading(visible)
	}
}

func (c *Controller) scheduleWatchdog() {
	c.watchdog = c.clock.AfterFunc(c.watchdogDelay, func() {
		c.post(c.checkHidden)
	})
}

// checkHidden re-applies the hidden style when the surface drifted from it
// while the dashboard was never opened.
func (c *Controller) checkHidden() {
	c.watchdog = nil
	if c.visibility != VisibilityHidden || !c.surface.HasAnchor(AnchorContainer) {
		return
	}
	if c.surface.Style() != HiddenStyle() {
		c.log.Warnw("surface visible while hidden, forcing hidden")
		c.surface.ApplyStyle(HiddenStyle())
	}
}
