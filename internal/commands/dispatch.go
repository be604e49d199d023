package commands

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// Subscriber is implemented by handlers that can attach themselves to the
// go-command dispatcher.
type Subscriber interface {
	Subscribe(maxRetries int) CommandSubscription
}

// Subscribe attaches the handler to the go-command dispatcher. Failed
// executions are retried up to maxRetries times.
func (h *Handler[T]) Subscribe(maxRetries int) CommandSubscription {
	return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(max(maxRetries, 0)))
}

// Dispatcher registers Subscriber handlers with the go-command dispatcher so
// messages can be sent with dispatcher.Dispatch.
type Dispatcher struct {
	MaxRetries int
}

// RegisterCommand satisfies CommandDispatcher.
func (d Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	sub, ok := handler.(Subscriber)
	if !ok {
		return nil, fmt.Errorf("commands: handler %T cannot be dispatched", handler)
	}
	return sub.Subscribe(d.MaxRetries), nil
}

// Unsubscribe releases every subscription.
func Unsubscribe(subs []CommandSubscription) {
	for _, sub := range subs {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

var _ CommandDispatcher = Dispatcher{}
