package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/commands"
	"github.com/goliatone/go-mdt/pkg/hostclient"
	"github.com/goliatone/go-mdt/pkg/logging"
)

// runtime holds the pieces every command shares.
type runtime struct {
	cfg    mdt.Config
	log    *zap.SugaredLogger
	client mdt.HostClient
	mock   *hostclient.MockClient
}

func (g *Globals) config() (mdt.Config, error) {
	cfg := mdt.DefaultConfig()
	if g.Config != "" {
		loaded, err := mdt.LoadConfig(g.Config)
		if err != nil {
			return mdt.Config{}, err
		}
		cfg = loaded
	}
	if endpoint := strings.TrimSpace(g.Endpoint); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if env := strings.TrimSpace(g.LogEnv); env != "" {
		cfg.LogEnv = env
	}
	return cfg, nil
}

func (g *Globals) setup() (*runtime, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogEnv)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log}
	if g.Mock {
		rt.mock = hostclient.NewMockClient(hostclient.DefaultMockData())
		rt.client = rt.mock
		return rt, nil
	}
	client, err := hostclient.NewHTTPClient(hostclient.HTTPConfig{Endpoint: cfg.HostEndpoint()})
	if err != nil {
		return nil, fmt.Errorf("mdt: host client: %w", err)
	}
	rt.client = client
	return rt, nil
}

// controllerOptions builds options for a controller drawing on surface.
func (rt *runtime) controllerOptions(surface mdt.Surface, log *zap.SugaredLogger) (mdt.Options, error) {
	renderer, err := mdt.NewTemplateRenderer()
	if err != nil {
		return mdt.Options{}, fmt.Errorf("mdt: templates: %w", err)
	}
	opts := mdt.Options{
		Client:    rt.client,
		Surface:   surface,
		Charts:    mdt.NewEChartsRenderer(mdt.WithChartTheme(rt.cfg.ChartTheme)),
		Renderer:  renderer,
		Logger:    log,
		Telemetry: mdt.LogTelemetry{Logger: log},
	}
	if rt.mock != nil {
		opts.SubmitHandlers = map[mdt.FormKind]mdt.SubmitHandler{
			mdt.FormNewIncident: commands.NewCreateIncidentCommand(rt.mock, opts.Telemetry),
		}
	}
	return rt.cfg.Apply(opts), nil
}

// initController runs Init. An InitError has already been queued as an error
// notification, so it is logged and the caller keeps running.
func initController(ctx context.Context, controller *mdt.Controller, log *zap.SugaredLogger) error {
	err := controller.Init(ctx)
	var initErr *mdt.InitError
	if errors.As(err, &initErr) {
		log.Warnw("mdt init reported errors", "error", err)
		return nil
	}
	return err
}
