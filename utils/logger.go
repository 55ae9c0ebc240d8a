package utils

import (
	"log"

	"ceygo/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var Logger *zap.Logger

// InitializeLogger sets up the logging configuration
func InitializeLogger() {
	var cfg zap.Config

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(config.AppConfig.LogLevel)
		if err != nil {
			level = zapcore.InfoLevel
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}

// SetLogger swaps the global logger, e.g. for zaptest loggers.
func SetLogger(l *zap.Logger) {
	Logger = l
	zap.ReplaceGlobals(l)
}
