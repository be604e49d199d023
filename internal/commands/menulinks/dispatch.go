package menulinkscmd

import "github.com/goliatone/go-structure-sync/internal/commands"

func (h *ExportHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

func (h *ImportHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

func (h *ValidateHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

func (h *InvalidateCacheHandler) Subscribe(maxRetries int) commands.CommandSubscription {
	return h.inner.Subscribe(maxRetries)
}

// Subscribe attaches every handler of set to the go-command dispatcher.
// Release the returned subscriptions with commands.Unsubscribe.
func Subscribe(set *HandlerSet, maxRetries int) ([]commands.CommandSubscription, error) {
	if set == nil {
		return nil, nil
	}
	d := commands.Dispatcher{MaxRetries: maxRetries}
	subs := make([]commands.CommandSubscription, 0, 4)
	for _, handler := range set.Handlers() {
		sub, err := d.RegisterCommand(handler)
		if err != nil {
			commands.Unsubscribe(subs)
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

var (
	_ commands.Subscriber = (*ExportHandler)(nil)
	_ commands.Subscriber = (*ImportHandler)(nil)
	_ commands.Subscriber = (*ValidateHandler)(nil)
	_ commands.Subscriber = (*InvalidateCacheHandler)(nil)
)
