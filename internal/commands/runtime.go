package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// DefaultCommandTimeout bounds a command unless the handler overrides it.
const DefaultCommandTimeout = 5 * time.Minute

// commandContext returns the context a handler runs under. A nil parent is
// replaced with context.Background; a non positive timeout leaves the
// deadline untouched.
func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// EnsureLogger falls back to a no-op logger.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
