package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// NavigateInput selects the page to activate.
type NavigateInput struct {
	Page   mdt.Page `json:"page"`
	Reload bool     `json:"reload,omitempty"`
}

type navigator interface {
	Navigate(ctx context.Context, page mdt.Page) error
	Reload(ctx context.Context) error
}

// NavigateCommand switches the active page, or reloads it when Reload is set.
type NavigateCommand struct {
	controller navigator
	telemetry  Telemetry
}

// NewNavigateCommand creates the command.
func NewNavigateCommand(controller navigator, telemetry Telemetry) *NavigateCommand {
	return &NavigateCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateInput] = (*NavigateCommand)(nil)

// Execute delegates to the controller.
func (c *NavigateCommand) Execute(ctx context.Context, msg NavigateInput) error {
	if c.controller == nil {
		return errors.New("navigate command requires controller")
	}
	var err error
	if msg.Reload && msg.Page == "" {
		err = c.controller.Reload(ctx)
	} else {
		err = c.controller.Navigate(ctx, mdt.NormalizePage(msg.Page))
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.navigate", map[string]any{
		"page":   string(msg.Page),
		"reload": msg.Reload,
	})
	return nil
}
