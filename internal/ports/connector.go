package ports

import (
	"context"
	"time"

	"github.com/eleven-am/tether/internal/domain"
)

type ConnectorPort interface {
	// ID identifies the connector in logs, events, and status snapshots.
	ID() string

	// Connect arms the connector: it invokes the bind driver and, on
	// success, transitions to bound-waiting-for-connection. Fails fast with
	// domain.ErrAlreadyBound when a binding is already live.
	Connect(handler ConnectionHandler) error

	// WaitForState blocks until the connector reaches target, the timeout
	// elapses, or ctx is cancelled. It returns whether target was reached.
	// Must not be called from the goroutine that delivers the awaited event.
	WaitForState(ctx context.Context, target domain.ConnectorState, timeout time.Duration) bool

	State() domain.ConnectorState

	IsBound() bool

	// Unbind tears down the binding. No-op when not bound.
	Unbind()

	Metrics() domain.ConnectorMetrics
}
