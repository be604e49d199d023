package interfaces

import "context"

// NotifyLevel classifies user-facing messages.
type NotifyLevel string

const (
	NotifyStatus  NotifyLevel = "status"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
)

// Notifier surfaces short, human readable messages to whoever triggered a run
// (an admin screen, a CLI session). Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, level NotifyLevel, message string)
}
