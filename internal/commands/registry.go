package commands

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandSubscription is returned by dispatchers for each subscribed handler.
type CommandSubscription interface {
	Unsubscribe()
}

// CommandDispatcher subscribes handlers to a message bus.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}
