package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the sugared logger used throughout the application. The format "json"
// selects the production encoder, everything else the colored development encoder. Log lines go
// to stderr unless output paths are given.
func NewLogger(format string, level string, outputs ...string) (*zap.SugaredLogger, error) {
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	if len(outputs) > 0 {
		config.OutputPaths = outputs
		config.ErrorOutputPaths = outputs
	}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
