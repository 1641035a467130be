package mdt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyExpiresAfterTTL(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	n, err := h.ctrl.Notify(ctx, "Unit dispatched", KindWarning)
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "exclamation-triangle", n.Icon)

	visible := h.tree.Snapshot().Notifications
	require.Len(t, visible, 1)
	assert.Equal(t, n.ID, visible[0].ID)

	h.advance(t, DefaultNotificationTTL-time.Millisecond)
	assert.Len(t, h.state(t).Notifications, 1)

	h.advance(t, time.Millisecond)
	assert.Empty(t, h.state(t).Notifications)
	assert.Empty(t, h.tree.Snapshot().Notifications)
}

func TestNotifyUnknownKindFallsBackToInfo(t *testing.T) {
	h := newHarness(t, nil)

	n, err := h.ctrl.Notify(context.Background(), "hello", "celebration")
	require.NoError(t, err)
	assert.Equal(t, KindInfo, n.Kind)
	assert.Equal(t, "info-circle", n.Icon)
}

func TestDismissBeforeExpiryIsSafe(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	first, err := h.ctrl.Notify(ctx, "first", KindSuccess)
	require.NoError(t, err)
	second, err := h.ctrl.Notify(ctx, "second", KindError)
	require.NoError(t, err)
	require.Equal(t, 2, h.clock.Pending())

	require.NoError(t, h.ctrl.DismissNotification(ctx, first.ID))
	assert.Equal(t, 1, h.clock.Pending())

	state := h.state(t)
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, second.ID, state.Notifications[0].ID)

	h.advance(t, DefaultNotificationTTL)
	assert.Empty(t, h.state(t).Notifications)

	require.NoError(t, h.ctrl.DismissNotification(ctx, first.ID))
	require.NoError(t, h.ctrl.DismissNotification(ctx, second.ID))
	assert.Empty(t, h.tree.Snapshot().Notifications)
}

func TestNotificationTTLIsConfigurable(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.NotificationTTL = time.Second })

	_, err := h.ctrl.Notify(context.Background(), "short", KindInfo)
	require.NoError(t, err)

	h.advance(t, time.Second)
	assert.Empty(t, h.state(t).Notifications)
}

func TestNotificationKindIcons(t *testing.T) {
	cases := map[NotificationKind]string{
		KindSuccess: "check-circle",
		KindError:   "times-circle",
		KindWarning: "exclamation-triangle",
		KindInfo:    "info-circle",
		"":          "info-circle",
		"SUCCESS":   "check-circle",
	}
	for kind, icon := range cases {
		assert.Equal(t, icon, kind.Icon(), "kind %q", kind)
	}
}

type notificationSpySurface struct {
	*ViewTree
	mu      sync.Mutex
	removes int
}

func (s *notificationSpySurface) RemoveNotification(id string) {
	s.mu.Lock()
	s.removes++
	s.mu.Unlock()
	s.ViewTree.RemoveNotification(id)
}

func (s *notificationSpySurface) removeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}

func TestNotificationRemovalSkipsMissingAnchor(t *testing.T) {
	surface := &notificationSpySurface{ViewTree: NewViewTree(WithoutAnchors(AnchorNotifications))}
	h := newHarness(t, func(o *Options) { o.Surface = surface })
	ctx := context.Background()

	_, err := h.ctrl.Notify(ctx, "expiring", KindInfo)
	require.NoError(t, err)
	dismissed, err := h.ctrl.Notify(ctx, "dismissed", KindInfo)
	require.NoError(t, err)
	require.Len(t, h.state(t).Notifications, 2)

	require.NoError(t, h.ctrl.DismissNotification(ctx, dismissed.ID))
	h.advance(t, DefaultNotificationTTL)

	assert.Empty(t, h.state(t).Notifications)
	assert.Zero(t, surface.removeCount())
}
