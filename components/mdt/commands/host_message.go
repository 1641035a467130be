package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

type messageHandler interface {
	HandleMessage(ctx context.Context, env mdt.Envelope) error
}

// HostMessageCommand feeds one host envelope into the controller so every
// transport dispatches messages the same way.
type HostMessageCommand struct {
	controller messageHandler
	telemetry  Telemetry
}

// NewHostMessageCommand creates the command.
func NewHostMessageCommand(controller messageHandler, telemetry Telemetry) *HostMessageCommand {
	return &HostMessageCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[mdt.Envelope] = (*HostMessageCommand)(nil)

// Execute dispatches the envelope.
func (c *HostMessageCommand) Execute(ctx context.Context, msg mdt.Envelope) error {
	if c.controller == nil {
		return errors.New("host message command requires controller")
	}
	if err := c.controller.HandleMessage(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.message", map[string]any{
		"type": string(msg.Type),
	})
	return nil
}
