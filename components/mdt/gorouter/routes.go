package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/commands"
	"github.com/goliatone/go-mdt/components/mdt/httpapi"
	"github.com/goliatone/go-mdt/components/mdt/queries"
)

// Config wires go-router with the MDT executor and view broadcaster.
type Config[T any] struct {
	Router    router.Router[T]
	API       httpapi.Executor
	Catalog   gocommand.Querier[queries.CatalogRequest, queries.Catalog]
	Broadcast *mdt.Broadcaster
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for MDT endpoints.
type RouteConfig struct {
	Message    string
	Navigate   string
	FormOpen   string
	FormSubmit string
	Close      string
	Notify     string
	State      string
	Catalog    string
	WebSocket  string
}

// Register mounts the MDT routes (host messages, UI actions, state, view
// stream) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := strings.TrimRight(cfg.BasePath, "/")
	if base == "" {
		base = "/mdt"
	}

	group := cfg.Router.Group(base)
	registerAPI(group, cfg.API, routes)

	if cfg.Catalog != nil {
		catalog := cfg.Catalog
		group.Get(routes.Catalog, router.WrapHandler(func(ctx router.Context) error {
			out, err := catalog.Query(ctx.Context(), queries.CatalogRequest{})
			if err != nil {
				return respondError(ctx, http.StatusInternalServerError, err)
			}
			return ctx.JSON(http.StatusOK, out)
		}))
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Message, router.WrapHandler(func(ctx router.Context) error {
		var env mdt.Envelope
		if err := json.Unmarshal(ctx.Body(), &env); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.HostMessage(ctx.Context(), env); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "dispatched"})
	}))

	r.Post(routes.Navigate, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.NavigateInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Navigate(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "navigating"})
	}))

	r.Post(routes.FormOpen, router.WrapHandler(func(ctx router.Context) error {
		form := ctx.Param("form")
		if form == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("form is required"))
		}
		if err := api.OpenForm(ctx.Context(), commands.OpenFormInput{Form: mdt.FormKind(form)}); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "opened"})
	}))

	r.Post(routes.FormSubmit, router.WrapHandler(func(ctx router.Context) error {
		form := ctx.Param("form")
		if form == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("form is required"))
		}
		var values map[string]string
		if err := json.Unmarshal(ctx.Body(), &values); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.SubmitFormInput{Form: mdt.FormKind(form), Values: values}
		if err := api.SubmitForm(ctx.Context(), input); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "submitted"})
	}))

	r.Post(routes.Close, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Close(ctx.Context()); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Notify, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.NotifyInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Notify(ctx.Context(), payload); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Get(routes.State, router.WrapHandler(func(ctx router.Context) error {
		state, err := api.State(ctx.Context())
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))
}

func registerWebSocket[T any](r router.Router[T], broadcast *mdt.Broadcaster, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := broadcast.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Message == "" {
		routes.Message = "/nui/message"
	}
	if routes.Navigate == "" {
		routes.Navigate = "/navigate"
	}
	if routes.FormOpen == "" {
		routes.FormOpen = "/forms/:form/open"
	}
	if routes.FormSubmit == "" {
		routes.FormSubmit = "/forms/:form/submit"
	}
	if routes.Close == "" {
		routes.Close = "/close"
	}
	if routes.Notify == "" {
		routes.Notify = "/notify"
	}
	if routes.State == "" {
		routes.State = "/state"
	}
	if routes.Catalog == "" {
		routes.Catalog = "/catalog"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
