package mdt

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ViewEventKind tags a surface update mirrored to subscribers.
type ViewEventKind string

const (
	EventStyle              ViewEventKind = "style"
	EventLoading            ViewEventKind = "loading"
	EventActivePage         ViewEventKind = "active_page"
	EventUser               ViewEventKind = "user"
	EventStats              ViewEventKind = "stats"
	EventTable              ViewEventKind = "table"
	EventChart              ViewEventKind = "chart"
	EventModalShown         ViewEventKind = "modal_shown"
	EventModalHidden        ViewEventKind = "modal_hidden"
	EventNotificationAdded  ViewEventKind = "notification_added"
	EventNotificationRemove ViewEventKind = "notification_removed"
	EventSearchFocus        ViewEventKind = "search_focus"
)

// ViewEvent is one surface update.
type ViewEvent struct {
	Kind    ViewEventKind `json:"kind"`
	Payload any           `json:"payload,omitempty"`
}

// ChartEvent is the payload of an EventChart update.
type ChartEvent struct {
	Anchor Anchor    `json:"anchor"`
	ID     string    `json:"id"`
	Spec   ChartSpec `json:"spec"`
	HTML   string    `json:"html"`
}

// Broadcaster wraps a Surface and fans out every update to subscribers.
// Slow subscribers drop events rather than blocking the controller.
type Broadcaster struct {
	inner Surface
	mu    sync.RWMutex
	subs  map[int]chan ViewEvent
	next  int
}

// NewBroadcaster wraps inner. A nil inner surface uses a fresh ViewTree.
func NewBroadcaster(inner Surface) *Broadcaster {
	if inner == nil {
		inner = NewViewTree()
	}
	return &Broadcaster{
		inner: inner,
		subs:  make(map[int]chan ViewEvent),
	}
}

// Subscribe returns a channel of view events and a cancel func.
func (b *Broadcaster) Subscribe() (<-chan ViewEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan ViewEvent, 32)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broadcaster) publish(event ViewEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (b *Broadcaster) HasAnchor(anchor Anchor) bool { return b.inner.HasAnchor(anchor) }

func (b *Broadcaster) Style() SurfaceStyle { return b.inner.Style() }

func (b *Broadcaster) ApplyStyle(style SurfaceStyle) {
	b.inner.ApplyStyle(style)
	b.publish(ViewEvent{Kind: EventStyle, Payload: style})
}

func (b *Broadcaster) SetLoading(visible bool) {
	b.inner.SetLoading(visible)
	b.publish(ViewEvent{Kind: EventLoading, Payload: visible})
}

func (b *Broadcaster) SetActivePage(page Page) {
	b.inner.SetActivePage(page)
	b.publish(ViewEvent{Kind: EventActivePage, Payload: page})
}

func (b *Broadcaster) SetUser(view UserView) {
	b.inner.SetUser(view)
	b.publish(ViewEvent{Kind: EventUser, Payload: view})
}

func (b *Broadcaster) RenderStats(view StatsView) {
	b.inner.RenderStats(view)
	b.publish(ViewEvent{Kind: EventStats, Payload: view})
}

func (b *Broadcaster) RenderTable(view TableView) {
	b.inner.RenderTable(view)
	b.publish(ViewEvent{Kind: EventTable, Payload: view})
}

func (b *Broadcaster) MountChart(anchor Anchor, chart Chart) {
	b.inner.MountChart(anchor, chart)
	b.publish(ViewEvent{Kind: EventChart, Payload: ChartEvent{
		Anchor: anchor,
		ID:     chart.ID(),
		Spec:   chart.Spec(),
		HTML:   chart.HTML(),
	}})
}

func (b *Broadcaster) ShowModal(view ModalView) {
	b.inner.ShowModal(view)
	b.publish(ViewEvent{Kind: EventModalShown, Payload: view})
}

func (b *Broadcaster) HideModal() {
	b.inner.HideModal()
	b.publish(ViewEvent{Kind: EventModalHidden})
}

func (b *Broadcaster) AddNotification(n Notification) {
	b.inner.AddNotification(n)
	b.publish(ViewEvent{Kind: EventNotificationAdded, Payload: n})
}

func (b *Broadcaster) RemoveNotification(id string) {
	b.inner.RemoveNotification(id)
	b.publish(ViewEvent{Kind: EventNotificationRemove, Payload: id})
}

func (b *Broadcaster) FocusSearch() {
	b.inner.FocusSearch()
	b.publish(ViewEvent{Kind: EventSearchFocus})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams view events as JSON.
func (b *Broadcaster) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := b.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for view events.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := b.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("event: " + string(event.Kind) + "\ndata: ")); err != nil {
				return
			}
			if err := encoder.Encode(event); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

var _ Surface = (*Broadcaster)(nil)
