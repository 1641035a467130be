package mdt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcasterMirrorsUpdates(t *testing.T) {
	tree := NewViewTree()
	b := NewBroadcaster(tree)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.SetActivePage(PageCitizens)
	b.AddNotification(Notification{ID: "n1", Message: "hello"})

	select {
	case e := <-ch:
		assert.Equal(t, EventActivePage, e.Kind)
		assert.Equal(t, PageCitizens, e.Payload)
	default:
		t.Fatalf("expected active page event")
	}
	select {
	case e := <-ch:
		assert.Equal(t, EventNotificationAdded, e.Kind)
	default:
		t.Fatalf("expected notification event")
	}

	snap := tree.Snapshot()
	assert.Equal(t, PageCitizens, snap.ActivePage)
	require.Len(t, snap.Notifications, 1)
	assert.True(t, b.HasAnchor(AnchorContainer))
}

func TestBroadcasterCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	b.FocusSearch()
}

func TestBroadcasterDropsForSlowSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)
	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.SetLoading(i%2 == 0)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publishing blocked on a slow subscriber")
	}
}

func TestBroadcasterServesWebSocket(t *testing.T) {
	b := NewBroadcaster(nil)
	srv := httptest.NewServer(http.HandlerFunc(b.ServeWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(), url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	b.ApplyStyle(ShownStyle())

	var event ViewEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventStyle, event.Kind)
}

// failingStream rejects the first write and accepts the rest.
type failingStream struct {
	header http.Header
	mu     sync.Mutex
	writes int
}

func (f *failingStream) Header() http.Header { return f.header }

func (f *failingStream) WriteHeader(int) {}

func (f *failingStream) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writes == 1 {
		return 0, errors.New("connection reset")
	}
	return len(p), nil
}

func TestBroadcasterSSEStopsOnWriteFailure(t *testing.T) {
	b := NewBroadcaster(nil)
	w := &failingStream{header: http.Header{}}
	r := httptest.NewRequest(http.MethodGet, "/mdt/events", nil)

	done := make(chan struct{})
	go func() {
		b.ServeSSE(w, r)
		close(done)
	}()
	require.Eventually(t, func() bool { return b.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	b.SetLoading(true)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stream kept running after a failed write")
	}
	assert.Equal(t, "text/event-stream", w.header.Get("Content-Type"))
	assert.Zero(t, b.Subscribers())
}
