package connector

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
)

// Connector tracks the lifecycle of a bind/connect handshake. A single
// mutex serializes every read and write of the state and the stored
// decorator; a broadcast channel, replaced on every transition, wakes all
// blocked waiters.
type Connector struct {
	id     string
	driver ports.BindDriver
	events ports.EventSink
	logger *slog.Logger

	mu         sync.Mutex
	state      domain.ConnectorState
	changed    chan struct{}
	active     *decorator
	handle     ports.BindHandle
	lastChange time.Time

	bindAttempts    atomic.Int64
	bindFailures    atomic.Int64
	connectedCount  atomic.Int64
	disconnectCount atomic.Int64
}

var _ ports.ConnectorPort = (*Connector)(nil)

// New creates a connector. events may be nil when no lifecycle observer is
// wired.
func New(driver ports.BindDriver, events ports.EventSink, logger *slog.Logger) *Connector {
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	return &Connector{
		id:         id,
		driver:     driver,
		events:     events,
		logger:     logger.With("component", "connector", "connector_id", id),
		state:      domain.StateNone,
		changed:    make(chan struct{}),
		lastChange: time.Now(),
	}
}

func (c *Connector) ID() string {
	return c.id
}

// Connect arms the connector. It fails fast when a binding is already live,
// invokes the bind driver, and transitions to bound-waiting-for-connection on
// success or binding-failed on failure. Either transition wakes all waiters.
// Not reentrant: two Connect calls must never be in flight concurrently.
func (c *Connector) Connect(handler ports.ConnectionHandler) error {
	if handler == nil {
		return domain.NewConfigError("handler", "cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsBound() {
		c.logger.Error("connector is already bound, aborting bind attempt", "state", c.state.String())
		return domain.ErrAlreadyBound
	}

	c.bindAttempts.Add(1)

	// A fresh decorator per bind cycle keeps late callbacks from a previous
	// binding from touching the state machine.
	dec := &decorator{inner: handler, connector: c}

	handle, err := c.driver.Bind(dec)
	if err != nil {
		c.bindFailures.Add(1)
		c.logger.Error("bind attempt failed", "error", err)
		c.setStateLocked(domain.StateBindingFailed)
		return domain.NewBindError(c.id, err)
	}

	c.logger.Debug("bind succeeded, waiting for connection")
	c.setStateLocked(domain.StateBoundWaitingForConnection)
	c.active = dec
	c.handle = handle
	return nil
}

// WaitForState blocks the calling goroutine until the connector reaches
// target, timeout elapses, or ctx is cancelled. Returns whether target was
// reached. An already-satisfied wait returns immediately without consuming
// any of the timeout. Connection callbacks run before waiters are unblocked,
// so a waiter woken by a transition observes the handler's side effects.
//
// Must not be called from the goroutine that delivers the awaited event.
func (c *Connector) WaitForState(ctx context.Context, target domain.ConnectorState, timeout time.Duration) bool {
	c.mu.Lock()
	if c.state == target {
		c.mu.Unlock()
		return true
	}

	c.logger.Debug("waiting for state", "target", target.String(), "current", c.state.String(), "timeout", timeout)

	// A single timer spans every wake, so wakes for transitions into other
	// states cannot stretch the overall deadline.
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for c.state != target {
		ch := c.changed
		c.mu.Unlock()

		select {
		case <-ch:
			c.mu.Lock()
		case <-timer.C:
			return c.stateEquals(target)
		case <-ctx.Done():
			return c.stateEquals(target)
		}
	}
	c.mu.Unlock()
	return true
}

func (c *Connector) stateEquals(target domain.ConnectorState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == target
}

func (c *Connector) State() domain.ConnectorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connector) IsBound() bool {
	return c.State().IsBound()
}

// Unbind tears down the binding and transitions to unbound, waking all
// waiters. No-op when not bound.
func (c *Connector) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsBound() {
		c.logger.Debug("unbind requested but connector is not bound", "state", c.state.String())
		return
	}

	if c.handle != nil {
		if err := c.handle.Close(); err != nil {
			c.logger.Error("failed to close bind handle", "error", err)
		}
		c.handle = nil
	}
	c.active = nil
	c.setStateLocked(domain.StateUnbound)
}

func (c *Connector) Metrics() domain.ConnectorMetrics {
	c.mu.Lock()
	state := c.state
	lastChange := c.lastChange
	c.mu.Unlock()

	return domain.ConnectorMetrics{
		State:           state,
		BindAttempts:    c.bindAttempts.Load(),
		BindFailures:    c.bindFailures.Load(),
		ConnectedCount:  c.connectedCount.Load(),
		DisconnectCount: c.disconnectCount.Load(),
		LastStateChange: lastChange,
	}
}

// onConnected is invoked by the decorator after the wrapped handler has run.
func (c *Connector) onConnected(from *decorator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != from {
		c.logger.Debug("ignoring connected callback from stale bind cycle")
		return
	}

	switch c.state {
	case domain.StateBoundWaitingForConnection, domain.StateBoundDisconnected:
		c.connectedCount.Add(1)
		c.setStateLocked(domain.StateBoundConnected)
	default:
		c.logger.Debug("ignoring connected callback", "state", c.state.String())
	}
}

// onDisconnected is invoked by the decorator after the wrapped handler has
// run. The binding is not necessarily dead: the host may restore the
// connection later and deliver a connected callback again.
func (c *Connector) onDisconnected(from *decorator) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != from {
		c.logger.Debug("ignoring disconnected callback from stale bind cycle")
		return
	}

	if c.state != domain.StateBoundConnected {
		c.logger.Debug("ignoring disconnected callback", "state", c.state.String())
		return
	}

	c.disconnectCount.Add(1)
	c.setStateLocked(domain.StateBoundDisconnected)
}

func (c *Connector) setStateLocked(newState domain.ConnectorState) {
	if c.state == newState {
		return
	}

	c.logger.Debug("state change", "from", c.state.String(), "to", newState.String())

	old := c.state
	c.state = newState
	c.lastChange = time.Now()

	if c.events != nil {
		c.events.EmitStateChanged(domain.StateChangedEvent{
			ConnectorID: c.id,
			From:        old,
			To:          newState,
			ChangedAt:   c.lastChange,
		})
	}

	close(c.changed)
	c.changed = make(chan struct{})
}
