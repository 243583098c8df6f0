// pkg/logger/logger.go

package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// L returns the global logger, initializing the fallback if nothing has been
// set up yet. Never returns nil.
func L() *zap.Logger {
	if log == nil {
		InitializeWithFallback()
	}
	return log
}

// ParseLogLevel maps a LOG_LEVEL string onto a zap level, defaulting to Info.
func ParseLogLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// DefaultConsoleEncoderConfig is the compact colored encoder used on the
// terminal tee.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// Sync flushes any buffered entries. Safe to call at any point.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

func replaceGlobal(l *zap.Logger) {
	log = l
	zap.ReplaceGlobals(l)
}

func consoleLevel() zapcore.Level {
	return ParseLogLevel(os.Getenv("LOG_LEVEL"))
}
