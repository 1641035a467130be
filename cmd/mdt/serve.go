package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/gorouter"
	"github.com/goliatone/go-mdt/components/mdt/httpapi"
	"github.com/goliatone/go-mdt/components/mdt/queries"
	"github.com/goliatone/go-mdt/pkg/hostchannel"
)

type serveCmd struct {
	Listen      string `help:"Address to listen on (overrides the config)."`
	HostChannel string `name:"host-channel" help:"Websocket URL of the host message stream (overrides the config)."`
	Open        bool   `help:"Open the MDT on start as if the host had sent an open message."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	rt, err := g.setup()
	if err != nil {
		return err
	}
	defer rt.log.Sync() //nolint:errcheck

	broadcast := mdt.NewBroadcaster(nil)
	opts, err := rt.controllerOptions(broadcast, rt.log)
	if err != nil {
		return err
	}
	controller := mdt.NewController(opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- controller.Run(ctx) }()

	if err := initController(ctx, controller, rt.log); err != nil {
		return err
	}
	if cmd.Open {
		if err := controller.HandleMessage(ctx, mdt.Envelope{Type: mdt.MessageOpen}); err != nil {
			return err
		}
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       httpapi.NewCommandExecutor(controller, opts.Telemetry),
		Catalog:   queries.NewCatalogQuery(controller),
		Broadcast: broadcast,
		BasePath:  rt.cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("mdt: register routes: %w", err)
	}

	channelURL := rt.cfg.HostChannelURL
	if cmd.HostChannel != "" {
		channelURL = cmd.HostChannel
	}
	channelErr := make(chan error, 1)
	if channelURL != "" {
		channel, err := hostchannel.New(hostchannel.Options{
			URL:     channelURL,
			Handler: controller,
			Logger:  rt.log.Named("hostchannel"),
		})
		if err != nil {
			return err
		}
		go func() { channelErr <- channel.Run(ctx) }()
	}

	listen := rt.cfg.Listen
	if cmd.Listen != "" {
		listen = cmd.Listen
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(listen) }()

	rt.log.Infow("mdt routes ready",
		"listen", listen,
		"base_path", rt.cfg.BasePath,
		"host", rt.cfg.HostEndpoint(),
		"mock", g.Mock,
	)

	select {
	case <-ctx.Done():
		return nil
	case err := <-loopErr:
		return err
	case err := <-channelErr:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mdt: host channel: %w", err)
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mdt: server: %w", err)
	}
}
