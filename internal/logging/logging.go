// Package logging builds the *zap.Logger every component of this store
// takes at construction, following the buildLogger pattern of
// IAmSoThirsty-Project-AI/octoreflex's cmd/octoreflex/main.go: JSON
// output in production, a human-readable console encoder in
// development, both driven by the same level string.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build constructs a logger at the given level ("debug", "info",
// "warn", "error"). format selects the encoder: "console" for local
// development, anything else (including "") for JSON.
func Build(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if level == "" {
		level = "info"
	}
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("logging: invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
