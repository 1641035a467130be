package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/commands"
	"github.com/goliatone/go-mdt/components/mdt/queries"
)

// Executor is the transport-neutral surface shared by HTTP and router adapters.
type Executor interface {
	HostMessage(ctx context.Context, env mdt.Envelope) error
	Navigate(ctx context.Context, input commands.NavigateInput) error
	OpenForm(ctx context.Context, input commands.OpenFormInput) error
	SubmitForm(ctx context.Context, input commands.SubmitFormInput) error
	Close(ctx context.Context) error
	Notify(ctx context.Context, input commands.NotifyInput) error
	State(ctx context.Context) (mdt.State, error)
}

// CommandExecutor implements Executor on top of go-command handlers.
type CommandExecutor struct {
	Message    gocommand.Commander[mdt.Envelope]
	NavigateTo gocommand.Commander[commands.NavigateInput]
	Open       gocommand.Commander[commands.OpenFormInput]
	Submit     gocommand.Commander[commands.SubmitFormInput]
	CloseMDT   gocommand.Commander[commands.CloseInput]
	Notifier   gocommand.Commander[commands.NotifyInput]
	StateQuery gocommand.Querier[queries.StateRequest, mdt.State]
}

var errNotConfigured = errors.New("httpapi: handler not configured")

// NewCommandExecutor wires the standard commands around a controller.
func NewCommandExecutor(controller *mdt.Controller, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		Message:    commands.NewHostMessageCommand(controller, telemetry),
		NavigateTo: commands.NewNavigateCommand(controller, telemetry),
		Open:       commands.NewOpenFormCommand(controller, telemetry),
		Submit:     commands.NewSubmitFormCommand(controller, telemetry),
		CloseMDT:   commands.NewCloseCommand(controller, telemetry),
		Notifier:   commands.NewNotifyCommand(controller, telemetry),
		StateQuery: queries.NewStateQuery(controller),
	}
}

func (e *CommandExecutor) HostMessage(ctx context.Context, env mdt.Envelope) error {
	if e.Message == nil {
		return errNotConfigured
	}
	return e.Message.Execute(ctx, env)
}

func (e *CommandExecutor) Navigate(ctx context.Context, input commands.NavigateInput) error {
	if e.NavigateTo == nil {
		return errNotConfigured
	}
	return e.NavigateTo.Execute(ctx, input)
}

func (e *CommandExecutor) OpenForm(ctx context.Context, input commands.OpenFormInput) error {
	if e.Open == nil {
		return errNotConfigured
	}
	return e.Open.Execute(ctx, input)
}

func (e *CommandExecutor) SubmitForm(ctx context.Context, input commands.SubmitFormInput) error {
	if e.Submit == nil {
		return errNotConfigured
	}
	return e.Submit.Execute(ctx, input)
}

func (e *CommandExecutor) Close(ctx context.Context) error {
	if e.CloseMDT == nil {
		return errNotConfigured
	}
	return e.CloseMDT.Execute(ctx, commands.CloseInput{})
}

func (e *CommandExecutor) Notify(ctx context.Context, input commands.NotifyInput) error {
	if e.Notifier == nil {
		return errNotConfigured
	}
	return e.Notifier.Execute(ctx, input)
}

func (e *CommandExecutor) State(ctx context.Context) (mdt.State, error) {
	if e.StateQuery == nil {
		return mdt.State{}, errNotConfigured
	}
	return e.StateQuery.Query(ctx, queries.StateRequest{})
}

var _ Executor = (*CommandExecutor)(nil)
