package mdt

import (
	"context"
	"strings"
	"unicode/utf8"
)

const minSearchLength = 2

// KeyEvent is a key press forwarded from the presentation layer.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`
}

// HandleKey applies the global shortcuts and reports whether the key was used:
// Escape closes the dashboard, Ctrl/Cmd+K focuses search and Ctrl/Cmd+N opens
// the incident form.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) (bool, error) {
	var handled bool
	err := c.call(ctx, func() { handled = c.handleKey(ev) })
	return handled, err
}

func (c *Controller) handleKey(ev KeyEvent) bool {
	key := strings.ToLower(ev.Key)
	if key == "escape" || key == "esc" {
		c.closeByUser()
		return true
	}
	if !ev.Ctrl && !ev.Meta {
		return false
	}
	switch key {
	case "k":
		if c.surface.HasAnchor(AnchorSearch) {
			c.surface.FocusSearch()
		}
		return true
	case "n":
		if err := c.openForm(FormNewIncident); err != nil {
			c.log.Warnw("incident shortcut failed", "error", err)
		}
		return true
	}
	return false
}

// Search runs a global search. Queries shorter than two characters are ignored.
func (c *Controller) Search(ctx context.Context, query string) error {
	return c.call(ctx, func() {
		query = strings.TrimSpace(query)
		if utf8.RuneCountInString(query) < minSearchLength {
			return
		}
		c.log.Infow("global search", "query", query, "page", c.page)
		c.telemetry.Record(c.runCtx, "mdt.search", map[string]any{"query": query})
	})
}

// ToolbarAction is one of the header buttons.
type ToolbarAction string

const (
	ToolbarNotifications ToolbarAction = "notifications"
	ToolbarSettings      ToolbarAction = "settings"
	ToolbarLogout        ToolbarAction = "logout"
)

// Toolbar handles a header button. The actions are placeholders that only log.
func (c *Controller) Toolbar(ctx context.Context, action ToolbarAction) error {
	return c.call(ctx, func() {
		switch action {
		case ToolbarNotifications:
			c.log.Infow("notifications panel requested", "pending", len(c.notifications))
		case ToolbarSettings:
			c.log.Infow("settings requested")
		case ToolbarLogout:
			c.log.Infow("logout requested", "officer", c.session.Callsign)
		default:
			c.log.Warnw("unknown toolbar action", "action", action)
			return
		}
		c.telemetry.Record(c.runCtx, "mdt.toolbar", map[string]any{"action": string(action)})
	})
}

// RecordVerb is a per-row action.
type RecordVerb string

const (
	RecordView RecordVerb = "view"
	RecordEdit RecordVerb = "edit"
)

// RecordAction is a view or edit request for a table row.
type RecordAction struct {
	Verb RecordVerb `json:"verb"`
	Page Page       `json:"page"`
	Key  string     `json:"key"`
}

// HandleRecordAction logs a row action. Record detail views are not built yet.
func (c *Controller) HandleRecordAction(ctx context.Context, action RecordAction) error {
	return c.call(ctx, func() {
		c.log.Infow("record action", "verb", action.Verb, "page", NormalizePage(action.Page), "key", action.Key)
		c.telemetry.Record(c.runCtx, "mdt.record."+string(action.Verb), map[string]any{
			"page": string(NormalizePage(action.Page)),
			"key":  action.Key,
		})
	})
}
