// Package log provides the process-wide zap logger used by the simulator and its commands.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var sugared *zap.SugaredLogger
var base *zap.Logger

// Init initializes the package-level logger. Debug mode uses zap's
// development config, which prints human-readable lines at debug level.
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	base = zapLogger
	sugared = zapLogger.Sugar()
	return nil
}

// GetSugaredLogger returns the sugared logger, falling back to a no-op
// logger when Init was never called (library use, tests).
func GetSugaredLogger() *zap.SugaredLogger {
	if sugared == nil {
		base = zap.NewNop()
		sugared = base.Sugar()
	}
	return sugared
}

// Sync flushes any buffered log entries.
func Sync() {
	if sugared != nil {
		_ = sugared.Sync()
	}
}

func Debugf(template string, args ...interface{}) {
	GetSugaredLogger().Debugf(template, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Debugw(msg, keysAndValues...)
}

func Infof(template string, args ...interface{}) {
	GetSugaredLogger().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	GetSugaredLogger().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Warnw(msg, keysAndValues...)
}

func Errorf(template string, args ...interface{}) {
	GetSugaredLogger().Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	GetSugaredLogger().Errorw(msg, keysAndValues...)
}

// Fatalf logs and exits the process.
func Fatalf(template string, args ...interface{}) {
	GetSugaredLogger().Fatalf(template, args...)
}
