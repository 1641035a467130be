package mdt

import (
	"sync"
)

// ViewTree is an in-memory Surface. It backs headless runs, the terminal
// client and tests.
type ViewTree struct {
	mu            sync.RWMutex
	anchors       map[Anchor]bool
	style         SurfaceStyle
	loading       bool
	active        Page
	user          UserView
	stats         map[Anchor]int
	tables        map[Page]TableView
	tableRenders  map[Page]int
	charts        map[Anchor]Chart
	modal         *ModalView
	notifications []Notification
	searchFocus   int
}

// ViewSnapshot is a copy of what the ViewTree currently displays.
type ViewSnapshot struct {
	Style         SurfaceStyle       `json:"style"`
	Loading       bool               `json:"loading"`
	ActivePage    Page               `json:"active_page"`
	User          UserView           `json:"user"`
	Stats         map[Anchor]int     `json:"stats"`
	Tables        map[Page]TableView `json:"tables"`
	TableRenders  map[Page]int       `json:"-"`
	Charts        map[Anchor]Chart   `json:"-"`
	Modal         *ModalView         `json:"modal,omitempty"`
	Notifications []Notification     `json:"notifications"`
	SearchFocus   int                `json:"-"`
}

// ViewTreeOption customizes a ViewTree.
type ViewTreeOption func(*ViewTree)

// WithPageAnchors registers the panel, navigation and table anchors for pages.
func WithPageAnchors(pages ...Page) ViewTreeOption {
	return func(v *ViewTree) {
		for _, page := range pages {
			v.anchors[PanelAnchor(page)] = true
			v.anchors[NavAnchor(page)] = true
			if page != PageDashboard {
				v.anchors[TableAnchor(page)] = true
			}
		}
	}
}

// WithoutAnchors removes anchors, simulating incomplete markup.
func WithoutAnchors(anchors ...Anchor) ViewTreeOption {
	return func(v *ViewTree) {
		for _, anchor := range anchors {
			delete(v.anchors, anchor)
		}
	}
}

// WithInitialStyle sets the container style before the controller touches it.
func WithInitialStyle(style SurfaceStyle) ViewTreeOption {
	return func(v *ViewTree) {
		v.style = style
	}
}

// NewViewTree builds a tree exposing every fixed anchor and the built-in pages.
func NewViewTree(opts ...ViewTreeOption) *ViewTree {
	v := &ViewTree{
		anchors:      make(map[Anchor]bool),
		stats:        make(map[Anchor]int),
		tables:       make(map[Page]TableView),
		tableRenders: make(map[Page]int),
		charts:       make(map[Anchor]Chart),
	}
	for _, anchor := range fixedAnchors() {
		v.anchors[anchor] = true
	}
	pages := DefaultPages()
	ids := make([]Page, 0, len(pages))
	for _, def := range pages {
		ids = append(ids, def.ID)
	}
	WithPageAnchors(ids...)(v)
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

func fixedAnchors() []Anchor {
	return []Anchor{
		AnchorLoading,
		AnchorContainer,
		AnchorModal,
		AnchorNotifications,
		AnchorUserName,
		AnchorUserBadge,
		AnchorSearch,
		AnchorActiveCalls,
		AnchorOpenCases,
		AnchorArrestsToday,
		AnchorActiveWarrants,
		AnchorCrimeChart,
		AnchorResponseChart,
	}
}

func (v *ViewTree) HasAnchor(anchor Anchor) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.anchors[anchor]
}

func (v *ViewTree) Style() SurfaceStyle {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.style
}

func (v *ViewTree) ApplyStyle(style SurfaceStyle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorContainer] {
		v.style = style
	}
}

func (v *ViewTree) SetLoading(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorLoading] {
		v.loading = visible
	}
}

// SetActivePage deactivates every page and activates the target when its
// panel exists.
func (v *ViewTree) SetActivePage(page Page) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = ""
	if v.anchors[PanelAnchor(page)] {
		v.active = page
	}
}

func (v *ViewTree) SetUser(view UserView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorUserName] {
		v.user.Name = view.Name
	}
	if v.anchors[AnchorUserBadge] {
		v.user.Badge = view.Badge
	}
	v.user.Department = view.Department
	v.user.Callsign = view.Callsign
}

func (v *ViewTree) RenderStats(view StatsView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for anchor, value := range view.Counters {
		if v.anchors[anchor] {
			v.stats[anchor] = value
		}
	}
}

func (v *ViewTree) RenderTable(view TableView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.anchors[TableAnchor(view.Page)] {
		return
	}
	v.tables[view.Page] = view
	v.tableRenders[view.Page]++
}

func (v *ViewTree) MountChart(anchor Anchor, chart Chart) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[anchor] {
		v.charts[anchor] = chart
	}
}

func (v *ViewTree) ShowModal(view ModalView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorModal] {
		v.modal = &view
	}
}

func (v *ViewTree) HideModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modal = nil
}

func (v *ViewTree) AddNotification(n Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorNotifications] {
		v.notifications = append(v.notifications, n)
	}
}

func (v *ViewTree) RemoveNotification(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, n := range v.notifications {
		if n.ID == id {
			v.notifications = append(v.notifications[:i], v.notifications[i+1:]...)
			return
		}
	}
}

func (v *ViewTree) FocusSearch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.anchors[AnchorSearch] {
		v.searchFocus++
	}
}

// Snapshot copies the displayed state.
func (v *ViewTree) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap := ViewSnapshot{
		Style:         v.style,
		Loading:       v.loading,
		ActivePage:    v.active,
		User:          v.user,
		Stats:         make(map[Anchor]int, len(v.stats)),
		Tables:        make(map[Page]TableView, len(v.tables)),
		TableRenders:  make(map[Page]int, len(v.tableRenders)),
		Charts:        make(map[Anchor]Chart, len(v.charts)),
		Notifications: append([]Notification(nil), v.notifications...),
		SearchFocus:   v.searchFocus,
	}
	for k, val := range v.stats {
		snap.Stats[k] = val
	}
	for k, val := range v.tables {
		snap.Tables[k] = val
	}
	for k, val := range v.tableRenders {
		snap.TableRenders[k] = val
	}
	for k, val := range v.charts {
		snap.Charts[k] = val
	}
	if v.modal != nil {
		modal := *v.modal
		snap.Modal = &modal
	}
	return snap
}

var _ Surface = (*ViewTree)(nil)
