package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type Globals struct {
	Config   string `short:"c" type:"path" env:"MDT_CONFIG" help:"Path to the YAML configuration file."`
	LogEnv   string `name:"log-env" env:"MDT_LOG_ENV" help:"Logger environment (local, development, production)."`
	Endpoint string `env:"MDT_ENDPOINT" help:"Host request endpoint (overrides the config)."`
	Mock     bool   `env:"MDT_MOCK" help:"Serve records from the built-in fixtures instead of the host."`
}

type cli struct {
	Globals

	Serve serveCmd `cmd:"" help:"Run the MDT controller behind the HTTP and websocket API."`
	Send  sendCmd  `cmd:"" help:"Post a host message envelope to a running MDT server."`
	Fetch fetchCmd `cmd:"" help:"Fetch one record domain from the host and print it."`
	TUI   tuiCmd   `cmd:"" name:"tui" help:"Run the MDT controller in the terminal."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli{}
	kctx := kong.Parse(&app,
		kong.Name("mdt"),
		kong.Description("Mobile data terminal controller for the host runtime."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&app.Globals)
	kctx.FatalIfErrorf(err)
}
