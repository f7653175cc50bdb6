// Package log provides the process-wide zap logger.
package log

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

// Init builds the package-level logger. Debug mode uses the human readable
// development encoder, otherwise JSON output at info level.
func Init(debug bool) error {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	SetLogger(zapLogger.Sugar())
	return nil
}

// SetLogger replaces the package-level logger.
func SetLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func get() *zap.SugaredLogger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		z, err := zap.NewProduction(zap.AddCallerSkip(1))
		if err != nil {
			z = zap.NewNop()
		}
		logger = z.Sugar()
	}
	return logger
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = get().Sync()
}

func Debugf(template string, args ...interface{}) {
	get().Debugf(template, args...)
}

func Info(args ...interface{}) {
	get().Info(args...)
}

func Infof(template string, args ...interface{}) {
	get().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	get().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	get().Warnw(msg, keysAndValues...)
}

func Errorf(template string, args ...interface{}) {
	get().Errorf(template, args...)
}

func Fatalf(template string, args ...interface{}) {
	get().Fatalf(template, args...)
}
