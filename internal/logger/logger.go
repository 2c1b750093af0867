package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the global logger for the given environment and installs it
// with zap.ReplaceGlobals. Production uses JSON output, everything else the
// console encoder.
func Init(environment string) error {
	var log *zap.Logger
	var err error

	switch environment {
	case "production":
		log, err = zap.NewProduction()
	default:
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	zap.ReplaceGlobals(log)
	return nil
}

// Sync flushes any buffered log entries. Called on shutdown.
func Sync() {
	_ = zap.L().Sync()
}
