package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/loopviz/source"
	"github.com/wippyai/loopviz/trace"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the engine's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the engine's logger and the loggers of the packages
// it drives. This must be called before any engine is constructed.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	source.SetLogger(l.Named("source"))
	trace.SetLogger(l.Named("trace"))
}
