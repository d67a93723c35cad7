package container

import (
	"fmt"

	"github.com/samber/do"
	"go.uber.org/zap"
)

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	Format string
	Level  string
}

// NewLogger builds a JSON production logger or a console development logger.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zc zap.Config

	switch cfg.Format {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zc.Level = level
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}

// LoggerPackage provides *zap.Logger from the registered LogConfig.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		return NewLogger(do.MustInvoke[LogConfig](i))
	})
}
