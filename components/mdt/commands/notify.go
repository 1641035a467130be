package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// NotifyInput describes a notification to show.
type NotifyInput struct {
	Message string               `json:"message"`
	Kind    mdt.NotificationKind `json:"type"`
}

type notifier interface {
	Notify(ctx context.Context, message string, kind mdt.NotificationKind) (mdt.Notification, error)
}

// NotifyCommand pushes a notification to the terminal.
type NotifyCommand struct {
	controller notifier
	telemetry  Telemetry
}

// NewNotifyCommand creates the command.
func NewNotifyCommand(controller notifier, telemetry Telemetry) *NotifyCommand {
	return &NotifyCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NotifyInput] = (*NotifyCommand)(nil)

// Execute shows the notification.
func (c *NotifyCommand) Execute(ctx context.Context, msg NotifyInput) error {
	if c.controller == nil {
		return errors.New("notify command requires controller")
	}
	if strings.TrimSpace(msg.Message) == "" {
		return errors.New("notify command requires message")
	}
	n, err := c.controller.Notify(ctx, msg.Message, msg.Kind)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.notify", map[string]any{
		"id":   n.ID,
		"kind": string(n.Kind),
	})
	return nil
}
