package mdt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ettle/strcase"
)

// HostClient is the request/response endpoint exposed by the host runtime.
type HostClient interface {
	FetchData(ctx context.Context, domain, query string) (RecordCollection, error)
	Close(ctx context.Context) error
}

// SubmitHandler runs the creation action behind a form.
type SubmitHandler interface {
	Submit(ctx context.Context, submission FormSubmission) error
}

// SubmitHandlerFunc adapts a function into a SubmitHandler.
type SubmitHandlerFunc func(ctx context.Context, submission FormSubmission) error

// Submit calls f.
func (f SubmitHandlerFunc) Submit(ctx context.Context, submission FormSubmission) error {
	return f(ctx, submission)
}

// UpdateDataHook receives updateData payloads pushed by the host.
type UpdateDataHook func(ctx context.Context, payload json.RawMessage)

// Page identifies a dashboard page.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageCitizens  Page = "citizens"
	PageVehicles  Page = "vehicles"
	PageIncidents Page = "incidents"
)

// NormalizePage converts user supplied identifiers ("Citizens", "incidentReports")
// into the kebab-case form used for page ids and anchors.
func NormalizePage(page Page) Page {
	return Page(strcase.ToKebab(strings.TrimSpace(string(page))))
}

// PageDefinition registers a page and the domain selector used to load it.
// Pages without a domain activate without loading data.
type PageDefinition struct {
	ID      Page     `json:"id" yaml:"id"`
	Domain  string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// DefaultPages returns the built-in pages.
func DefaultPages() []PageDefinition {
	return []PageDefinition{
		{ID: PageDashboard, Domain: "dashboard", Title: "Dashboard"},
		{ID: PageCitizens, Domain: "citizens", Title: "citizens"},
		{ID: PageVehicles, Domain: "vehicles", Title: "vehicles"},
		{ID: PageIncidents, Domain: "incidents", Title: "incidents"},
	}
}

// Visibility is the presentation state of the dashboard surface.
type Visibility string

const (
	VisibilityHidden  Visibility = "hidden"
	VisibilityLoading Visibility = "loading"
	VisibilityShown   Visibility = "shown"
)

// Session describes the officer currently using the terminal.
type Session struct {
	Name       string `json:"name" yaml:"name"`
	Badge      string `json:"badge" yaml:"badge"`
	Department string `json:"department" yaml:"department"`
	Rank       string `json:"rank" yaml:"rank"`
	Callsign   string `json:"callsign" yaml:"callsign"`
}

// NotificationKind selects the notification style.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// Normalize maps unknown or empty kinds to info.
func (k NotificationKind) Normalize() NotificationKind {
	switch NotificationKind(strings.ToLower(strings.TrimSpace(string(k)))) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	case KindWarning:
		return KindWarning
	default:
		return KindInfo
	}
}

// Icon returns the icon name rendered next to the message.
func (k NotificationKind) Icon() string {
	switch k.Normalize() {
	case KindSuccess:
		return "check-circle"
	case KindError:
		return "times-circle"
	case KindWarning:
		return "exclamation-triangle"
	default:
		return "info-circle"
	}
}

// Notification is a transient user-facing message.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Icon      string           `json:"icon"`
	CreatedAt time.Time        `json:"created_at"`
}

// Modal is the single dialog owned by the controller.
type Modal struct {
	Visible bool     `json:"visible"`
	Title   string   `json:"title"`
	Body    any      `json:"body,omitempty"`
	Form    FormKind `json:"form,omitempty"`
}

// State is a copy of the controller state taken on the loop.
type State struct {
	Initialized   bool           `json:"initialized"`
	Page          Page           `json:"page"`
	Visibility    Visibility     `json:"visibility"`
	Session       Session        `json:"session"`
	Modal         Modal          `json:"modal"`
	Notifications []Notification `json:"notifications"`
}
