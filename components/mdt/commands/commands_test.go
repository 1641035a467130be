package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

type stubController struct {
	messages  []mdt.Envelope
	pages     []mdt.Page
	reloads   int
	opened    []mdt.FormKind
	submitted []mdt.FormKind
	closes    int
	notified  []string
	err       error
}

func (s *stubController) HandleMessage(_ context.Context, env mdt.Envelope) error {
	s.messages = append(s.messages, env)
	return s.err
}

func (s *stubController) Navigate(_ context.Context, page mdt.Page) error {
	s.pages = append(s.pages, page)
	return s.err
}

func (s *stubController) Reload(context.Context) error {
	s.reloads++
	return s.err
}

func (s *stubController) OpenForm(_ context.Context, kind mdt.FormKind) error {
	s.opened = append(s.opened, kind)
	return s.err
}

func (s *stubController) SubmitForm(_ context.Context, kind mdt.FormKind, _ map[string]string) error {
	s.submitted = append(s.submitted, kind)
	return s.err
}

func (s *stubController) Close(context.Context) error {
	s.closes++
	return s.err
}

func (s *stubController) Notify(_ context.Context, message string, kind mdt.NotificationKind) (mdt.Notification, error) {
	s.notified = append(s.notified, message)
	return mdt.Notification{ID: "n-1", Message: message, Kind: kind.Normalize()}, s.err
}

type stubIncidentStore struct {
	incidents []mdt.Incident
}

func (s *stubIncidentStore) AddIncident(_ context.Context, incident mdt.Incident) error {
	s.incidents = append(s.incidents, incident)
	return nil
}

func TestHostMessageCommand(t *testing.T) {
	ctrl := &stubController{}
	telemetry := &stubTelemetry{}
	cmd := NewHostMessageCommand(ctrl, telemetry)
	if err := cmd.Execute(context.Background(), mdt.Envelope{Type: mdt.MessageOpen}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(ctrl.messages) != 1 || ctrl.messages[0].Type != mdt.MessageOpen {
		t.Fatalf("expected open envelope, got %#v", ctrl.messages)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "mdt.command.message" {
		t.Fatalf("expected telemetry event, got %#v", telemetry.events)
	}
}

func TestNavigateCommandNormalizesPage(t *testing.T) {
	ctrl := &stubController{}
	cmd := NewNavigateCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), NavigateInput{Page: "Citizens"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(ctrl.pages) != 1 || ctrl.pages[0] != mdt.PageCitizens {
		t.Fatalf("expected citizens page, got %#v", ctrl.pages)
	}
}

func TestNavigateCommandReload(t *testing.T) {
	ctrl := &stubController{}
	cmd := NewNavigateCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), NavigateInput{Reload: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if ctrl.reloads != 1 || len(ctrl.pages) != 0 {
		t.Fatalf("expected reload only, got reloads=%d pages=%#v", ctrl.reloads, ctrl.pages)
	}
}

func TestFormCommands(t *testing.T) {
	ctrl := &stubController{}
	telemetry := &stubTelemetry{}
	open := NewOpenFormCommand(ctrl, telemetry)
	submit := NewSubmitFormCommand(ctrl, telemetry)

	if err := open.Execute(context.Background(), OpenFormInput{Form: mdt.FormAddCitizen}); err != nil {
		t.Fatalf("open returned error: %v", err)
	}
	if err := submit.Execute(context.Background(), SubmitFormInput{Form: mdt.FormAddCitizen, Values: map[string]string{"citizen-name": "x"}}); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if len(ctrl.opened) != 1 || len(ctrl.submitted) != 1 {
		t.Fatalf("expected one open and one submit, got %#v %#v", ctrl.opened, ctrl.submitted)
	}
	if len(telemetry.events) != 2 {
		t.Fatalf("expected two telemetry events, got %#v", telemetry.events)
	}
}

func TestCommandsPropagateErrorsWithoutTelemetry(t *testing.T) {
	boom := errors.New("boom")
	ctrl := &stubController{err: boom}
	telemetry := &stubTelemetry{}

	if err := NewCloseCommand(ctrl, telemetry).Execute(context.Background(), CloseInput{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := NewSubmitFormCommand(ctrl, telemetry).Execute(context.Background(), SubmitFormInput{Form: mdt.FormAddVehicle}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(telemetry.events) != 0 {
		t.Fatalf("expected no telemetry on failure, got %#v", telemetry.events)
	}
}

func TestCommandsRequireController(t *testing.T) {
	if err := NewCloseCommand(nil, nil).Execute(context.Background(), CloseInput{}); err == nil {
		t.Fatalf("expected error without controller")
	}
	if err := NewHostMessageCommand(nil, nil).Execute(context.Background(), mdt.Envelope{}); err == nil {
		t.Fatalf("expected error without controller")
	}
}

func TestNotifyCommand(t *testing.T) {
	ctrl := &stubController{}
	cmd := NewNotifyCommand(ctrl, nil)
	if err := cmd.Execute(context.Background(), NotifyInput{Message: "  "}); err == nil {
		t.Fatalf("expected error for blank message")
	}
	if err := cmd.Execute(context.Background(), NotifyInput{Message: "Unit en route", Kind: mdt.KindSuccess}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(ctrl.notified) != 1 || ctrl.notified[0] != "Unit en route" {
		t.Fatalf("unexpected notifications %#v", ctrl.notified)
	}
}

func TestCreateIncidentCommand(t *testing.T) {
	store := &stubIncidentStore{}
	telemetry := &stubTelemetry{}
	cmd := NewCreateIncidentCommand(store, telemetry)
	cmd.now = func() time.Time { return time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC) }

	err := cmd.Submit(context.Background(), mdt.FormSubmission{
		Form: mdt.FormNewIncident,
		Values: map[string]string{
			"incident-type":     "Burglary",
			"incident-location": " Vinewood ",
		},
		Officer: mdt.Session{Name: "John Doe", Callsign: "1A-12"},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(store.incidents) != 1 {
		t.Fatalf("expected one incident, got %d", len(store.incidents))
	}
	got := store.incidents[0]
	if got.Type != "Burglary" || got.Location != "Vinewood" || got.Status != "Open" {
		t.Fatalf("unexpected incident %#v", got)
	}
	if got.Officer != "John Doe (1A-12)" || got.Date != "2024-01-16" || got.ID == "" {
		t.Fatalf("unexpected incident metadata %#v", got)
	}
	if len(telemetry.events) != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestCreateIncidentCommandRejectsOtherForms(t *testing.T) {
	cmd := NewCreateIncidentCommand(&stubIncidentStore{}, nil)
	err := cmd.Execute(context.Background(), mdt.FormSubmission{
		Form:   mdt.FormAddVehicle,
		Values: map[string]string{"incident-type": "x"},
	})
	if err == nil {
		t.Fatalf("expected error for foreign form")
	}
	if err := NewCreateIncidentCommand(nil, nil).Execute(context.Background(), mdt.FormSubmission{}); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestCommandsAcceptControllerTelemetry(t *testing.T) {
	var recorded []string
	telemetry := mdt.TelemetryFunc(func(_ context.Context, event string, _ map[string]any) {
		recorded = append(recorded, event)
	})
	cmd := NewHostMessageCommand(&stubController{}, telemetry)
	if err := cmd.Execute(context.Background(), mdt.Envelope{Type: mdt.MessageClose}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(recorded) != 1 || recorded[0] != "mdt.command.message" {
		t.Fatalf("expected command telemetry, got %#v", recorded)
	}
	if _, ok := normalizeTelemetry(nil).(discardTelemetry); !ok {
		t.Fatalf("expected nil telemetry to be discarded")
	}
}
