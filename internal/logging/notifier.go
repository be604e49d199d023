package logging

import (
	"context"

	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// LogNotifier writes user notifications to a logger. Status messages are
// logged at info level.
type LogNotifier struct {
	logger interfaces.Logger
}

func NewLogNotifier(logger interfaces.Logger) *LogNotifier {
	return &LogNotifier{logger: Ensure(logger)}
}

func (n *LogNotifier) Notify(ctx context.Context, level interfaces.NotifyLevel, message string) {
	logger := n.logger.WithContext(ctx)
	switch level {
	case interfaces.NotifyError:
		logger.Error(message)
	case interfaces.NotifyWarning:
		logger.Warn(message)
	default:
		logger.Info(message)
	}
}

var _ interfaces.Notifier = (*LogNotifier)(nil)
