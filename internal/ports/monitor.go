package ports

import (
	"context"

	"github.com/eleven-am/tether/internal/domain"
)

// Operation is the externally supplied unit of work the monitor invokes on
// every poll. Transient failures are recoverable per-iteration failures.
type Operation func(ctx context.Context) (interface{}, error)

// ResultSink receives one published result per monitor iteration. Delivery
// to other goroutines is the sink's concern, not the monitor's.
type ResultSink interface {
	Publish(result domain.PollResult)
}

// ResultSinkFunc adapts a plain function to the ResultSink interface.
type ResultSinkFunc func(result domain.PollResult)

func (f ResultSinkFunc) Publish(result domain.PollResult) {
	f(result)
}

type MonitorPort interface {
	// Start launches a new polling generation, cancelling and replacing the
	// current one. It never blocks the caller; the new generation waits for
	// its predecessor to exit before running its first iteration.
	Start()

	// Stop cancels the current generation without waiting for it to exit.
	Stop()

	Metrics() domain.MonitorMetrics
}
