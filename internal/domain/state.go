package domain

type ConnectorState int

const (
	// StateNone is the initial state before any bind attempt.
	StateNone ConnectorState = iota

	// StateBoundWaitingForConnection means the bind call succeeded but the
	// connected callback has not fired yet.
	StateBoundWaitingForConnection

	// StateBoundConnected means the connected callback was delivered and the
	// binding is usable.
	StateBoundConnected

	// StateBoundDisconnected means a previously connected binding received a
	// disconnected callback. The host may still restore the connection and
	// deliver a connected callback again.
	StateBoundDisconnected

	// StateUnbound means teardown was explicitly requested.
	StateUnbound

	// StateBindingFailed means the bind call itself failed.
	StateBindingFailed
)

func (s ConnectorState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateBoundWaitingForConnection:
		return "bound_waiting_for_connection"
	case StateBoundConnected:
		return "bound_connected"
	case StateBoundDisconnected:
		return "bound_disconnected"
	case StateUnbound:
		return "unbound"
	case StateBindingFailed:
		return "binding_failed"
	default:
		return "unknown"
	}
}

// IsBound reports whether the state corresponds to a live binding. A bound
// service may still be flaky; it has simply not been torn down.
func (s ConnectorState) IsBound() bool {
	switch s {
	case StateBoundWaitingForConnection, StateBoundConnected, StateBoundDisconnected:
		return true
	default:
		return false
	}
}
