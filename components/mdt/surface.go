package mdt

// Anchor names a region of the presentation surface.
type Anchor string

const (
	AnchorLoading        Anchor = "loading-screen"
	AnchorContainer      Anchor = "mdt-container"
	AnchorModal          Anchor = "modal-overlay"
	AnchorNotifications  Anchor = "notifications-container"
	AnchorUserName       Anchor = "user-name"
	AnchorUserBadge      Anchor = "user-badge"
	AnchorSearch         Anchor = "global-search"
	AnchorActiveCalls    Anchor = "active-calls"
	AnchorOpenCases      Anchor = "open-cases"
	AnchorArrestsToday   Anchor = "arrests-today"
	AnchorActiveWarrants Anchor = "active-warrants"
	AnchorCrimeChart     Anchor = "crime-chart"
	AnchorResponseChart  Anchor = "response-chart"
)

// PanelAnchor is the content panel of a page.
func PanelAnchor(page Page) Anchor { return Anchor(string(page) + "-page") }

// TableAnchor is the table body of a list page.
func TableAnchor(page Page) Anchor { return Anchor(string(page) + "-tbody") }

// NavAnchor is the navigation entry of a page.
func NavAnchor(page Page) Anchor { return Anchor("nav-" + string(page)) }

// SurfaceStyle is the visibility styling of the dashboard container.
type SurfaceStyle struct {
	Display    string `json:"display"`
	Visibility string `json:"visibility"`
	Opacity    string `json:"opacity"`
}

// HiddenStyle returns the fully hidden container styling.
func HiddenStyle() SurfaceStyle {
	return SurfaceStyle{Display: "none", Visibility: "hidden", Opacity: "0"}
}

// ShownStyle returns the fully visible container styling.
func ShownStyle() SurfaceStyle {
	return SurfaceStyle{Display: "flex", Visibility: "visible", Opacity: "1"}
}

// Surface is the presentation layer the controller drives. Calls are made from
// the controller loop only; implementations must not block or call back into
// the controller synchronously.
type Surface interface {
	HasAnchor(anchor Anchor) bool
	Style() SurfaceStyle
	ApplyStyle(style SurfaceStyle)
	SetLoading(visible bool)
	SetActivePage(page Page)
	SetUser(view UserView)
	RenderStats(view StatsView)
	RenderTable(view TableView)
	MountChart(anchor Anchor, chart Chart)
	ShowModal(view ModalView)
	HideModal()
	AddNotification(n Notification)
	RemoveNotification(id string)
	FocusSearch()
}

type noopSurface struct{}

func (noopSurface) HasAnchor(Anchor) bool        { return false }
func (noopSurface) Style() SurfaceStyle          { return HiddenStyle() }
func (noopSurface) ApplyStyle(SurfaceStyle)      {}
func (noopSurface) SetLoading(bool)              {}
func (noopSurface) SetActivePage(Page)           {}
func (noopSurface) SetUser(UserView)             {}
func (noopSurface) RenderStats(StatsView)        {}
func (noopSurface) RenderTable(TableView)        {}
func (noopSurface) MountChart(Anchor, Chart)     {}
func (noopSurface) ShowModal(ModalView)          {}
func (noopSurface) HideModal()                   {}
func (noopSurface) AddNotification(Notification) {}
func (noopSurface) RemoveNotification(string)    {}
func (noopSurface) FocusSearch()                 {}

func normalizeSurface(s Surface) Surface {
	if s == nil {
		return noopSurface{}
	}
	return s
}

// UserView is the rendered officer header.
type UserView struct {
	Name       string `json:"name"`
	Badge      string `json:"badge"`
	Department string `json:"department,omitempty"`
	Callsign   string `json:"callsign,omitempty"`
}

// StatsView carries the dashboard counters keyed by their anchor. Counters
// whose anchor is missing are omitted.
type StatsView struct {
	Counters map[Anchor]int `json:"counters"`
}

// TableCell is a rendered cell. Badge carries the status class when the
// cell is rendered as a status badge.
type TableCell struct {
	Text  string `json:"text"`
	Badge string `json:"badge,omitempty"`
}

// TableRow is a rendered record row.
type TableRow struct {
	Key   string      `json:"key"`
	Cells []TableCell `json:"cells"`
}

// TableView is the rendered body of a list page.
type TableView struct {
	Page         Page       `json:"page"`
	Columns      []string   `json:"columns"`
	Rows         []TableRow `json:"rows"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}

// ModalView is the rendered dialog.
type ModalView struct {
	Title string   `json:"title"`
	Body  any      `json:"body,omitempty"`
	Form  FormKind `json:"form,omitempty"`
}
