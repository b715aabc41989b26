package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger for the given level ("debug", "info", ...) and
// environment. Development gets the console encoder, everything else JSON.
func New(level, env string) (*zap.Logger, error) {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = logLevel

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}
