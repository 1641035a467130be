package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/commands"
	"github.com/goliatone/go-mdt/components/mdt/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier struct {
	state mdt.State
	err   error
}

func (s *stubQuerier) Query(context.Context, queries.StateRequest) (mdt.State, error) {
	return s.state, s.err
}

func TestHandleHostMessage(t *testing.T) {
	message := &stubCommander[mdt.Envelope]{}
	api := &Handlers{API: &CommandExecutor{Message: message}}
	req := httptest.NewRequest(http.MethodPost, "/nui/message", strings.NewReader(`{"type":"open","data":{"player":{"name":"John Doe"}}}`))
	rec := httptest.NewRecorder()
	api.HandleHostMessage(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if message.calls != 1 || message.last.Type != mdt.MessageOpen {
		t.Fatalf("expected open envelope, got %#v", message.last)
	}
}

func TestHandleHostMessageRejectsBadJSON(t *testing.T) {
	message := &stubCommander[mdt.Envelope]{}
	api := &Handlers{API: &CommandExecutor{Message: message}}
	req := httptest.NewRequest(http.MethodPost, "/nui/message", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	api.HandleHostMessage(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if message.calls != 0 {
		t.Fatalf("expected no dispatch")
	}
}

func TestHandleNavigateUnknownPage(t *testing.T) {
	navigate := &stubCommander[commands.NavigateInput]{err: fmt.Errorf("navigate: %w", mdt.ErrUnknownPage)}
	api := &Handlers{API: &CommandExecutor{NavigateTo: navigate}}
	buf, _ := json.Marshal(commands.NavigateInput{Page: "reports"})
	req := httptest.NewRequest(http.MethodPost, "/navigate", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleNavigate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if navigate.last.Page != "reports" {
		t.Fatalf("expected page propagation, got %q", navigate.last.Page)
	}
}

func TestHandleSubmitForm(t *testing.T) {
	submit := &stubCommander[commands.SubmitFormInput]{}
	api := &Handlers{API: &CommandExecutor{Submit: submit}}
	req := httptest.NewRequest(http.MethodPost, "/forms/add-vehicle/submit", strings.NewReader(`{"vehicle-plate":"ABC123"}`))
	rec := httptest.NewRecorder()
	api.HandleSubmitForm(rec, req, "add-vehicle")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if submit.last.Form != mdt.FormAddVehicle || submit.last.Values["vehicle-plate"] != "ABC123" {
		t.Fatalf("unexpected submission %#v", submit.last)
	}
}

func TestHandleSubmitFormValidationError(t *testing.T) {
	submit := &stubCommander[commands.SubmitFormInput]{err: &mdt.FormValidationError{Form: mdt.FormAddVehicle, Fields: []string{"vehicle-model"}}}
	api := &Handlers{API: &CommandExecutor{Submit: submit}}
	req := httptest.NewRequest(http.MethodPost, "/forms/add-vehicle/submit", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	api.HandleSubmitForm(rec, req, "add-vehicle")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vehicle-model") {
		t.Fatalf("expected missing field in body, got %q", rec.Body.String())
	}
}

func TestHandleOpenFormAndClose(t *testing.T) {
	open := &stubCommander[commands.OpenFormInput]{}
	closeCmd := &stubCommander[commands.CloseInput]{}
	api := &Handlers{API: &CommandExecutor{Open: open, CloseMDT: closeCmd}}

	rec := httptest.NewRecorder()
	api.HandleOpenForm(rec, httptest.NewRequest(http.MethodPost, "/forms/new-incident/open", nil), "new-incident")
	if rec.Code != http.StatusOK || open.last.Form != mdt.FormNewIncident {
		t.Fatalf("unexpected open result %d %#v", rec.Code, open.last)
	}

	rec = httptest.NewRecorder()
	api.HandleClose(rec, httptest.NewRequest(http.MethodPost, "/close", nil))
	if rec.Code != http.StatusNoContent || closeCmd.calls != 1 {
		t.Fatalf("unexpected close result %d calls=%d", rec.Code, closeCmd.calls)
	}
}

func TestHandleNotify(t *testing.T) {
	notify := &stubCommander[commands.NotifyInput]{}
	api := &Handlers{API: &CommandExecutor{Notifier: notify}}
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`{"message":"Backup requested","type":"warning"}`))
	rec := httptest.NewRecorder()
	api.HandleNotify(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if notify.last.Kind != mdt.KindWarning {
		t.Fatalf("expected warning kind, got %q", notify.last.Kind)
	}
}

func TestHandleState(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{StateQuery: &stubQuerier{state: mdt.State{Initialized: true, Page: mdt.PageIncidents}}}}
	rec := httptest.NewRecorder()
	api.HandleState(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var state mdt.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Page != mdt.PageIncidents || !state.Initialized {
		t.Fatalf("unexpected state %#v", state)
	}
}

func TestHandlersWithoutCommandsReportNotImplemented(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{}}
	rec := httptest.NewRecorder()
	api.HandleState(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{mdt.ErrUnknownForm, http.StatusNotFound},
		{mdt.ErrFormNotOpen, http.StatusConflict},
		{mdt.ErrSubmitNotWired, http.StatusNotImplemented},
		{mdt.ErrLoopStopped, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusInternalServerError},
		{&mdt.MessageDispatchError{Type: mdt.MessageOpen, Err: context.Canceled}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
