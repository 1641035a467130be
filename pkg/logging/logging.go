package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared zap logger for the given environment
// (local, development or production).
func New(env string) (*zap.SugaredLogger, error) {
	logger, err := setLogger(env)
	if err != nil {
		return nil, err
	}
	return logger.Sugar().Named("mdt"), nil
}

func setLogger(env string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "local":
		return zap.NewExample(), nil
	case "development", "dev":
		return zap.NewDevelopment()
	case "production", "prod":
		return zap.NewProduction()
	default:
		return nil, fmt.Errorf("logging: unknown environment %q", env)
	}
}
