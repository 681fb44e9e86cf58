// Package logger holds the process-wide structured logger.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var singleton atomic.Pointer[zap.SugaredLogger]

func init() {
	singleton.Store(zap.NewNop().Sugar())
}

// Init builds a console logger writing to stderr. Verbose enables debug
// messages; otherwise only warnings and errors are shown.
func Init(verbose bool) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	singleton.Store(l.Sugar())
	return nil
}

// Set replaces the logger. Tests use it to capture output.
func Set(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	singleton.Store(l)
}

// L returns the current logger.
func L() *zap.SugaredLogger {
	return singleton.Load()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
