package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// OpenFormInput names the form to show in the modal.
type OpenFormInput struct {
	Form mdt.FormKind `json:"form"`
}

// SubmitFormInput carries the entered field values.
type SubmitFormInput struct {
	Form   mdt.FormKind      `json:"form"`
	Values map[string]string `json:"values"`
}

type formController interface {
	OpenForm(ctx context.Context, kind mdt.FormKind) error
	SubmitForm(ctx context.Context, kind mdt.FormKind, values map[string]string) error
}

// OpenFormCommand opens a creation form.
type OpenFormCommand struct {
	controller formController
	telemetry  Telemetry
}

// NewOpenFormCommand creates the command.
func NewOpenFormCommand(controller formController, telemetry Telemetry) *OpenFormCommand {
	return &OpenFormCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenFormInput] = (*OpenFormCommand)(nil)

// Execute opens the form modal.
func (c *OpenFormCommand) Execute(ctx context.Context, msg OpenFormInput) error {
	if c.controller == nil {
		return errors.New("open form command requires controller")
	}
	if err := c.controller.OpenForm(ctx, msg.Form); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.form_open", map[string]any{"form": string(msg.Form)})
	return nil
}

// SubmitFormCommand submits the open form.
type SubmitFormCommand struct {
	controller formController
	telemetry  Telemetry
}

// NewSubmitFormCommand creates the command.
func NewSubmitFormCommand(controller formController, telemetry Telemetry) *SubmitFormCommand {
	return &SubmitFormCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitFormInput] = (*SubmitFormCommand)(nil)

// Execute validates and submits the form. Validation errors leave the form open.
func (c *SubmitFormCommand) Execute(ctx context.Context, msg SubmitFormInput) error {
	if c.controller == nil {
		return errors.New("submit form command requires controller")
	}
	if err := c.controller.SubmitForm(ctx, msg.Form, msg.Values); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.form_submit", map[string]any{
		"form":   string(msg.Form),
		"fields": len(msg.Values),
	})
	return nil
}
