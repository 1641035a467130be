package mdt

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdt/pkg/clock"
)

type notificationEntry struct {
	Notification
	timer *clock.Timer
}

// Notify enqueues a notification. It expires after the notification TTL
// unless dismissed first.
func (c *Controller) Notify(ctx context.Context, message string, kind NotificationKind) (Notification, error) {
	var n Notification
	err := c.call(ctx, func() { n = c.notify(message, kind) })
	return n, err
}

// DismissNotification removes a notification before it expires.
func (c *Controller) DismissNotification(ctx context.Context, id string) error {
	return c.call(ctx, func() { c.removeNotification(id) })
}

func (c *Controller) notify(message string, kind NotificationKind) Notification {
	kind = kind.Normalize()
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Icon:      kind.Icon(),
		CreatedAt: c.clock.Now(),
	}
	entry := &notificationEntry{Notification: n}
	c.notifications = append(c.notifications, entry)
	if c.surface.HasAnchor(AnchorNotifications) {
		c.surface.AddNotification(n)
	}
	id := n.ID
	entry.timer = c.clock.AfterFunc(c.notificationTTL, func() {
		c.post(func() { c.removeNotification(id) })
	})
	c.telemetry.Record(c.runCtx, "mdt.notify", map[string]any{"kind": string(kind)})
	return n
}

func (c *Controller) removeNotification(id string) bool {
	for i, entry := range c.notifications {
		if entry.ID != id {
			continue
		}
		entry.timer.Stop()
		c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
		if c.surface.HasAnchor(AnchorNotifications) {
			c.surface.RemoveNotification(id)
		}
		return true
	}
	return false
}
