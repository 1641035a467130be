package termui

import (
	"context"
	"errors"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// Controller is the part of *mdt.Controller the terminal drives.
type Controller interface {
	Pages() []mdt.PageDefinition
	Forms() []mdt.FormTemplate
	Navigate(ctx context.Context, page mdt.Page) error
	HandleKey(ctx context.Context, ev mdt.KeyEvent) (bool, error)
	OpenForm(ctx context.Context, kind mdt.FormKind) error
	SubmitForm(ctx context.Context, kind mdt.FormKind, values map[string]string) error
	CloseModal(ctx context.Context) error
	Search(ctx context.Context, query string) error
	DismissNotification(ctx context.Context, id string) error
}

// Options configures a Model.
type Options struct {
	Context    context.Context
	Controller Controller
	Events     <-chan mdt.ViewEvent
	Theme      *Theme
}

type viewEventMsg struct {
	event mdt.ViewEvent
}

type eventsClosedMsg struct{}

type actionDoneMsg struct {
	action string
	err    error
}

type viewState struct {
	visible       bool
	loading       bool
	page          mdt.Page
	user          mdt.UserView
	stats         map[mdt.Anchor]int
	tables        map[mdt.Page]mdt.TableView
	charts        map[mdt.Anchor]mdt.ChartEvent
	modal         *mdt.ModalView
	notifications []mdt.Notification
}

// Model is the bubbletea model of the terminal surface.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	events <-chan mdt.ViewEvent

	pages []mdt.PageDefinition
	forms map[mdt.FormKind]mdt.FormTemplate

	view      viewState
	form      *formState
	searching bool
	search    textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	formKeys  formKeyMap
	styles    styles
	lastErr   string
	width     int
	height    int
	showHelp  bool
	quitting  bool
}

// New builds the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	search := textinput.New()
	search.Placeholder = "Search citizens, vehicles, incidents..."
	search.Prompt = "🔍 "
	search.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		ctrl:     opts.Controller,
		events:   opts.Events,
		forms:    make(map[mdt.FormKind]mdt.FormTemplate),
		search:   search,
		spinner:  spin,
		help:     help.New(),
		keys:     defaultKeyMap(),
		formKeys: defaultFormKeyMap(),
		styles:   newStyles(theme),
		view: viewState{
			page:   mdt.PageDashboard,
			stats:  make(map[mdt.Anchor]int),
			tables: make(map[mdt.Page]mdt.TableView),
			charts: make(map[mdt.Anchor]mdt.ChartEvent),
		},
	}
	if m.ctrl != nil {
		m.pages = m.ctrl.Pages()
		for _, form := range m.ctrl.Forms() {
			m.forms[form.Kind] = form
		}
	}
	return m
}

// Run starts a full-screen program until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.spinner.Tick)
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return viewEventMsg{event: event}
	}
}

// run executes a controller call off the bubbletea loop.
func (m Model) run(action string, fn func(ctx context.Context, ctrl Controller) error) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx, ctrl)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewEventMsg:
		cmd := m.apply(msg.event)
		return m, tea.Batch(cmd, m.waitForEvent())

	case eventsClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case actionDoneMsg:
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.action + ": " + msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) apply(event mdt.ViewEvent) tea.Cmd {
	switch event.Kind {
	case mdt.EventStyle:
		if style, ok := event.Payload.(mdt.SurfaceStyle); ok {
			m.view.visible = style == mdt.ShownStyle()
		}
	case mdt.EventLoading:
		if loading, ok := event.Payload.(bool); ok {
			m.view.loading = loading
		}
	case mdt.EventActivePage:
		if page, ok := event.Payload.(mdt.Page); ok {
			m.view.page = page
		}
	case mdt.EventUser:
		if user, ok := event.Payload.(mdt.UserView); ok {
			m.view.user = user
		}
	case mdt.EventStats:
		if stats, ok := event.Payload.(mdt.StatsView); ok {
			for anchor, value := range stats.Counters {
				m.view.stats[anchor] = value
			}
		}
	case mdt.EventTable:
		if table, ok := event.Payload.(mdt.TableView); ok {
			m.view.tables[table.Page] = table
		}
	case mdt.EventChart:
		if chart, ok := event.Payload.(mdt.ChartEvent); ok {
			m.view.charts[chart.Anchor] = chart
		}
	case mdt.EventModalShown:
		if modal, ok := event.Payload.(mdt.ModalView); ok {
			m.view.modal = &modal
			m.form = nil
			if tmpl, ok := m.forms[modal.Form]; ok && modal.Form != "" {
				m.form = newFormState(tmpl)
				return m.form.focusCmd()
			}
		}
	case mdt.EventModalHidden:
		m.view.modal = nil
		m.form = nil
	case mdt.EventNotificationAdded:
		if n, ok := event.Payload.(mdt.Notification); ok {
			m.view.notifications = append(m.view.notifications, n)
		}
	case mdt.EventNotificationRemove:
		if id, ok := event.Payload.(string); ok {
			m.removeNotification(id)
		}
	case mdt.EventSearchFocus:
		m.searching = true
		return m.search.Focus()
	}
	return nil
}

func (m *Model) removeNotification(id string) {
	kept := m.view.notifications[:0]
	for _, n := range m.view.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	m.view.notifications = kept
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.view.modal != nil && key.Matches(msg, m.keys.Close) {
		return m, m.run("close modal", func(ctx context.Context, ctrl Controller) error {
			return ctrl.CloseModal(ctx)
		})
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case !m.view.visible:
		return m, nil
	case key.Matches(msg, m.keys.Close):
		return m, m.sendKey(mdt.KeyEvent{Key: "Escape"})
	case key.Matches(msg, m.keys.Search):
		return m, m.sendKey(mdt.KeyEvent{Key: "k", Ctrl: true})
	case key.Matches(msg, m.keys.Incident):
		return m, m.sendKey(mdt.KeyEvent{Key: "n", Ctrl: true})
	case key.Matches(msg, m.keys.NextPage):
		return m, m.navigateBy(1)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.navigateBy(-1)
	case key.Matches(msg, m.keys.JumpPage):
		idx := int(msg.String()[0] - '1')
		if idx < len(m.pages) {
			return m, m.navigate(m.pages[idx].ID)
		}
	case key.Matches(msg, m.keys.Add):
		if kind, ok := addFormFor(m.view.page); ok {
			return m, m.run("open form", func(ctx context.Context, ctrl Controller) error {
				return ctrl.OpenForm(ctx, kind)
			})
		}
	case key.Matches(msg, m.keys.Dismiss):
		if n := len(m.view.notifications); n > 0 {
			id := m.view.notifications[n-1].ID
			return m, m.run("dismiss", func(ctx context.Context, ctrl Controller) error {
				return ctrl.DismissNotification(ctx, id)
			})
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		query := m.search.Value()
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		return m, m.run("search", func(ctx context.Context, ctrl Controller) error {
			return ctrl.Search(ctx, query)
		})
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		return m, m.run("close modal", func(ctx context.Context, ctrl Controller) error {
			return ctrl.CloseModal(ctx)
		})
	case key.Matches(msg, m.formKeys.Submit), msg.String() == "enter" && m.form.onLast():
		kind, values := m.form.kind, m.form.values()
		return m, m.run("submit", func(ctx context.Context, ctrl Controller) error {
			return ctrl.SubmitForm(ctx, kind, values)
		})
	case key.Matches(msg, m.formKeys.Next), msg.String() == "enter":
		return m, m.form.move(1)
	case key.Matches(msg, m.formKeys.Prev):
		return m, m.form.move(-1)
	}
	return m, m.form.update(msg)
}

func (m Model) sendKey(ev mdt.KeyEvent) tea.Cmd {
	return m.run("key", func(ctx context.Context, ctrl Controller) error {
		_, err := ctrl.HandleKey(ctx, ev)
		return err
	})
}

func (m Model) navigate(page mdt.Page) tea.Cmd {
	return m.run("navigate", func(ctx context.Context, ctrl Controller) error {
		return ctrl.Navigate(ctx, page)
	})
}

func (m Model) navigateBy(delta int) tea.Cmd {
	if len(m.pages) == 0 {
		return nil
	}
	current := 0
	for i, page := range m.pages {
		if page.ID == m.view.page {
			current = i
			break
		}
	}
	next := (current + delta + len(m.pages)) % len(m.pages)
	return m.navigate(m.pages[next].ID)
}

func addFormFor(page mdt.Page) (mdt.FormKind, bool) {
	switch page {
	case mdt.PageDashboard:
		return mdt.FormNewIncident, true
	case mdt.PageCitizens:
		return mdt.FormAddCitizen, true
	case mdt.PageVehicles:
		return mdt.FormAddVehicle, true
	case mdt.PageIncidents:
		return mdt.FormNewIncidentReport, true
	}
	return "", false
}

func sortedAnchors[V any](m map[mdt.Anchor]V) []mdt.Anchor {
	out := make([]mdt.Anchor, 0, len(m))
	for anchor := range m {
		out = append(out, anchor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
