package mdt

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-mdt/pkg/clock"
)

const (
	DefaultSettleDelay     = 2 * time.Second
	DefaultWatchdogDelay   = 2 * time.Second
	DefaultNotificationTTL = 5 * time.Second

	taskQueueSize = 64
)

// Options configures a Controller. Zero values fall back to safe defaults.
type Options struct {
	Client          HostClient
	Surface         Surface
	Charts          ChartRenderer
	Renderer        Renderer
	Validator       FormValidator
	Clock           clock.Clock
	Logger          *zap.SugaredLogger
	Telemetry       Telemetry
	Pages           []PageDefinition
	Forms           []FormTemplate
	SubmitHandlers  map[FormKind]SubmitHandler
	Session         *Session
	OnUpdateData    UpdateDataHook
	SettleDelay     time.Duration
	WatchdogDelay   time.Duration
	NotificationTTL time.Duration
}

// Controller owns the dashboard state. Every mutation runs on the loop
// started by Run; public methods post work to it and wait.
type Controller struct {
	client    HostClient
	surface   Surface
	charts    ChartRenderer
	renderer  Renderer
	validator FormValidator
	clock     clock.Clock
	log       *zap.SugaredLogger
	telemetry Telemetry
	onUpdate  UpdateDataHook

	settleDelay     time.Duration
	watchdogDelay   time.Duration
	notificationTTL time.Duration

	pages     map[Page]PageDefinition
	pageOrder []Page
	forms     map[FormKind]FormTemplate
	formOrder []FormKind
	handlers  map[FormKind]SubmitHandler

	tasks   chan func()
	done    chan struct{}
	running atomic.Bool
	runCtx  context.Context

	initialized   bool
	visibility    Visibility
	page          Page
	session       Session
	modal         Modal
	notifications []*notificationEntry
	mounted       map[Anchor]Chart
	navSeq        uint64
	settleGen     uint64
	settleTimer   *clock.Timer
	watchdog      *clock.Timer
}

// NewController builds a controller. Run must be started before calling
// any other method.
func NewController(opts Options) *Controller {
	c := &Controller{
		client:          opts.Client,
		surface:         normalizeSurface(opts.Surface),
		charts:          opts.Charts,
		renderer:        opts.Renderer,
		validator:       opts.Validator,
		clock:           opts.Clock,
		log:             opts.Logger,
		telemetry:       normalizeTelemetry(opts.Telemetry),
		onUpdate:        opts.OnUpdateData,
		settleDelay:     durationOr(opts.SettleDelay, DefaultSettleDelay),
		watchdogDelay:   durationOr(opts.WatchdogDelay, DefaultWatchdogDelay),
		notificationTTL: durationOr(opts.NotificationTTL, DefaultNotificationTTL),
		pages:           make(map[Page]PageDefinition),
		handlers:        make(map[FormKind]SubmitHandler),
		tasks:           make(chan func(), taskQueueSize),
		done:            make(chan struct{}),
		runCtx:          context.Background(),
		visibility:      VisibilityHidden,
		page:            PageDashboard,
		mounted:         make(map[Anchor]Chart),
	}
	if c.charts == nil {
		c.charts = NewEChartsRenderer()
	}
	if c.validator == nil {
		c.validator = NewJSONSchemaValidator()
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	for _, def := range append(DefaultPages(), opts.Pages...) {
		def.ID = NormalizePage(def.ID)
		if def.ID == "" {
			continue
		}
		if _, exists := c.pages[def.ID]; !exists {
			c.pageOrder = append(c.pageOrder, def.ID)
		}
		c.pages[def.ID] = def
	}
	forms := opts.Forms
	if len(forms) == 0 {
		forms = DefaultForms()
	}
	c.forms = indexForms(forms)
	for _, form := range forms {
		c.formOrder = append(c.formOrder, form.Kind)
	}
	c.handlers[FormNewIncident] = SubmitHandlerFunc(c.createIncident)
	for kind, handler := range opts.SubmitHandlers {
		if handler != nil {
			c.handlers[kind] = handler
		}
	}
	if opts.Session != nil {
		c.session = *opts.Session
	}
	return c
}

// Pages returns the registered pages in registration order.
func (c *Controller) Pages() []PageDefinition {
	out := make([]PageDefinition, 0, len(c.pageOrder))
	for _, id := range c.pageOrder {
		out = append(out, c.pages[id])
	}
	return out
}

// Forms returns the registered forms.
func (c *Controller) Forms() []FormTemplate {
	out := make([]FormTemplate, 0, len(c.formOrder))
	for _, kind := range c.formOrder {
		out = append(out, c.forms[kind])
	}
	return out
}

// Init forces the hidden state, renders the session header, schedules the
// visibility watchdog and loads the dashboard. It runs once; later calls
// are no-ops.
func (c *Controller) Init(ctx context.Context) error {
	var initErr error
	if err := c.call(ctx, func() { initErr = c.initialize() }); err != nil {
		return err
	}
	return initErr
}

func (c *Controller) initialize() error {
	if c.initialized {
		return nil
	}
	c.hide()

	var errs []error
	if missing := c.missingAnchors(); len(missing) > 0 {
		c.log.Warnw("surface is missing anchors", "anchors", missing)
	}
	if c.client == nil {
		errs = append(errs, errMissingHostClient)
	}
	if compiler, ok := c.validator.(interface{ Compile(...FormTemplate) error }); ok {
		if err := compiler.Compile(c.Forms()...); err != nil {
			errs = append(errs, err)
		}
	}

	c.renderUser()
	c.initialized = true
	c.scheduleWatchdog()
	c.telemetry.Record(c.runCtx, "mdt.init", map[string]any{"pages": len(c.pageOrder)})

	if c.client != nil {
		c.activate(PageDashboard)
	}

	if len(errs) > 0 {
		err := &InitError{Err: errors.Join(errs...)}
		c.log.Errorw("initialization failed", "error", err)
		c.notify("Failed to initialize MDT system", KindError)
		return err
	}
	c.log.Infow("mdt initialized", "pages", c.pageOrder)
	return nil
}

func (c *Controller) missingAnchors() []Anchor {
	var missing []Anchor
	for _, anchor := range fixedAnchors() {
		if !c.surface.HasAnchor(anchor) {
			missing = append(missing, anchor)
		}
	}
	for _, id := range c.pageOrder {
		if !c.surface.HasAnchor(PanelAnchor(id)) {
			missing = append(missing, PanelAnchor(id))
		}
	}
	return missing
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	var state State
	err := c.call(ctx, func() { state = c.state() })
	return state, err
}

func (c *Controller) state() State {
	notifications := make([]Notification, 0, len(c.notifications))
	for _, entry := range c.notifications {
		notifications = append(notifications, entry.Notification)
	}
	return State{
		Initialized:   c.initialized,
		Page:          c.page,
		Visibility:    c.visibility,
		Session:       c.session,
		Modal:         c.modal,
		Notifications: notifications,
	}
}

func (c *Controller) renderUser() {
	if !c.surface.HasAnchor(AnchorUserName) && !c.surface.HasAnchor(AnchorUserBadge) {
		return
	}
	c.surface.SetUser(userView(c.session))
}

// createIncident is the built-in creation action for the incident form.
// Persisting incidents is left to the host; the action only records intent.
func (c *Controller) createIncident(ctx context.Context, sub FormSubmission) error {
	c.log.Infow("creating incident",
		"type", sub.Values["incident-type"],
		"location", sub.Values["incident-location"],
		"officer", sub.Officer.Callsign,
	)
	c.telemetry.Record(ctx, "mdt.incident.create", map[string]any{"type": sub.Values["incident-type"]})
	return nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
