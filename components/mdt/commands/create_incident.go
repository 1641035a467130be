package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/google/uuid"
)

// IncidentStore persists incidents created from the terminal.
type IncidentStore interface {
	AddIncident(ctx context.Context, incident mdt.Incident) error
}

// CreateIncidentCommand turns a new-incident submission into an incident
// record. It doubles as the controller's submit handler for that form.
type CreateIncidentCommand struct {
	store     IncidentStore
	telemetry Telemetry
	now       func() time.Time
}

// NewCreateIncidentCommand creates the command.
func NewCreateIncidentCommand(store IncidentStore, telemetry Telemetry) *CreateIncidentCommand {
	return &CreateIncidentCommand{store: store, telemetry: normalizeTelemetry(telemetry), now: time.Now}
}

var (
	_ gocommand.Commander[mdt.FormSubmission] = (*CreateIncidentCommand)(nil)
	_ mdt.SubmitHandler                       = (*CreateIncidentCommand)(nil)
)

// Execute stores the incident.
func (c *CreateIncidentCommand) Execute(ctx context.Context, msg mdt.FormSubmission) error {
	if c.store == nil {
		return errors.New("create incident command requires store")
	}
	if msg.Form != "" && msg.Form != mdt.FormNewIncident {
		return errors.New("create incident command only accepts new-incident submissions")
	}
	kind := strings.TrimSpace(msg.Values["incident-type"])
	if kind == "" {
		return errors.New("create incident command requires incident-type")
	}
	officer := msg.Officer.Name
	if msg.Officer.Callsign != "" {
		officer = strings.TrimSpace(officer + " (" + msg.Officer.Callsign + ")")
	}
	incident := mdt.Incident{
		ID:       mdt.FlexString(uuid.NewString()),
		Type:     kind,
		Location: strings.TrimSpace(msg.Values["incident-location"]),
		Officer:  officer,
		Date:     c.now().Format(time.DateOnly),
		Status:   "Open",
	}
	if err := c.store.AddIncident(ctx, incident); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "mdt.command.incident_create", map[string]any{
		"id":   string(incident.ID),
		"type": incident.Type,
	})
	return nil
}

// Submit implements mdt.SubmitHandler.
func (c *CreateIncidentCommand) Submit(ctx context.Context, submission mdt.FormSubmission) error {
	return c.Execute(ctx, submission)
}
