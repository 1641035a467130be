package mdt

import (
	core "github.com/goliatone/go-mdt/components/mdt"
)

// Controller exposes the underlying components/mdt.Controller type.
type Controller = core.Controller

// Options re-export for convenience.
type Options = core.Options

// Config re-export for file based setups.
type Config = core.Config

// NewController proxies to the internal constructor.
func NewController(opts Options) *Controller {
	return core.NewController(opts)
}

// LoadConfig proxies to the internal YAML loader.
func LoadConfig(path string) (Config, error) {
	return core.LoadConfig(path)
}
