package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	mdt "github.com/goliatone/go-mdt/components/mdt"
	"github.com/goliatone/go-mdt/components/mdt/termui"
)

type tuiCmd struct {
	LogFile string `name:"log-file" type:"path" help:"Write controller logs to this file; logs are discarded otherwise."`
	Closed  bool   `help:"Start hidden and wait for the host to open the MDT."`
}

func (cmd *tuiCmd) Run(ctx context.Context, g *Globals) error {
	rt, err := g.setup()
	if err != nil {
		return err
	}
	log, err := cmd.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	broadcast := mdt.NewBroadcaster(nil)
	events, unsubscribe := broadcast.Subscribe()
	defer unsubscribe()

	opts, err := rt.controllerOptions(broadcast, log)
	if err != nil {
		return err
	}
	controller := mdt.NewController(opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = controller.Run(ctx) }()

	if err := initController(ctx, controller, log); err != nil {
		return err
	}
	if !cmd.Closed {
		if err := controller.HandleMessage(ctx, mdt.Envelope{Type: mdt.MessageOpen}); err != nil {
			return err
		}
	}

	return termui.Run(ctx, termui.Options{
		Controller: controller,
		Events:     events,
	})
}

// logger keeps zap output off the terminal the program draws on.
func (cmd *tuiCmd) logger() (*zap.SugaredLogger, error) {
	if cmd.LogFile == "" {
		return zap.NewNop().Sugar(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{cmd.LogFile}
	cfg.ErrorOutputPaths = []string{cmd.LogFile}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("mdt: log file: %w", err)
	}
	return logger.Sugar().Named("mdt"), nil
}
