package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dts-gxu/JobTracker/internal/config"
)

// New builds the process logger. Level comes from config; unknown levels fall
// back to info. When a log file is configured, output goes to both stdout and
// the file.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zcfg.OutputPaths = []string{"stdout", cfg.File}
		zcfg.ErrorOutputPaths = []string{"stderr", cfg.File}
	}

	return zcfg.Build()
}
