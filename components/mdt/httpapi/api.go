package httpapi

import (
	"encoding/json"
	"net/http"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/commands"
)

// Handlers exposes net/http endpoints backed by an Executor.
type Handlers struct {
	API Executor
}

// HandleHostMessage accepts one host envelope, the HTTP twin of the
// host's message event.
func (h *Handlers) HandleHostMessage(w http.ResponseWriter, r *http.Request) {
	var env mdt.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.HostMessage(r.Context(), env); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var payload commands.NavigateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Navigate(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleOpenForm(w http.ResponseWriter, r *http.Request, form string) {
	input := commands.OpenFormInput{Form: mdt.FormKind(form)}
	if err := h.API.OpenForm(r.Context(), input); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSubmitForm(w http.ResponseWriter, r *http.Request, form string) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := commands.SubmitFormInput{Form: mdt.FormKind(form), Values: values}
	if err := h.API.SubmitForm(r.Context(), input); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.API.Close(r.Context()); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var payload commands.NotifyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Notify(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	state, err := h.API.State(r.Context())
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}
