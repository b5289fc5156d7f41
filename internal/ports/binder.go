package ports

// ConnectionEvents receives the host's asynchronous connection callbacks.
// Callbacks may arrive on any goroutine, any number of times, with no
// ordering guarantee relative to the return of Bind itself beyond "connected
// fires only after a prior successful bind".
type ConnectionEvents interface {
	OnConnected(binding interface{})
	OnDisconnected()
}

// ConnectionHandler is the caller-supplied handler for connection events.
// It shares the ConnectionEvents capability set; the connector wraps it in a
// decorator that drives the state machine after the handler has run.
type ConnectionHandler interface {
	OnConnected(binding interface{})
	OnDisconnected()
}

// BindHandle is the opaque handle to an established binding. It is owned
// exclusively by the connector between a successful Bind and Unbind.
type BindHandle interface {
	Close() error
}

// BindDriver abstracts the underlying bind mechanism. Bind must either fail
// synchronously or return a live handle; it must never invoke the supplied
// callbacks before returning.
type BindDriver interface {
	Bind(events ConnectionEvents) (BindHandle, error)
}

// BindDriverFunc adapts a plain function to the BindDriver interface.
type BindDriverFunc func(events ConnectionEvents) (BindHandle, error)

func (f BindDriverFunc) Bind(events ConnectionEvents) (BindHandle, error) {
	return f(events)
}
