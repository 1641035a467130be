package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// CloseInput requests the terminal be closed by the user.
type CloseInput struct{}

type closer interface {
	Close(ctx context.Context) error
}

// CloseCommand hides the terminal and notifies the host.
type CloseCommand struct {
	controller closer
	telemetry  Telemetry
}

// NewCloseCommand creates the command.
func NewCloseCommand(controller closer, telemetry Telemetry) *CloseCommand {
	return &CloseCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CloseInput] = (*CloseCommand)(nil)

// Execute closes the terminal.
func (c *CloseCommand) Execute(ctx context.Context, _ CloseInput) error {
	if c.controller == nil {
		return errors.New("close command requires controller")
	}
	if err := c.controller.Close(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.close", nil)
	return nil
}
