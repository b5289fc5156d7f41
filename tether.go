// Package tether keeps a client reliably connected to a remote service
// endpoint whose connection can fail, time out, or be torn down and restored
// asynchronously by the hosting environment.
//
// Tether provides:
//   - A thread-safe connection state machine with blocking, timeout-bounded
//     waits for any state
//   - A callback decorator that keeps the state machine consistent with
//     asynchronous connection events, with handler-before-transition ordering
//   - A resilient polling monitor with generational handoff and
//     rebind-on-timeout recovery
//   - A gRPC bind driver that maps channel connectivity onto connection events
//
// Basic usage:
//
//	driver := tether.NewGRPCDriver(&tether.GRPCConfig{Target: "localhost:7000"}, logger)
//	handler := tether.NewGRPCBindingHandler()
//	op := tether.GRPCHealthOperation(handler, "", 2*time.Second)
//
//	supervisor, err := tether.New(driver, handler, op, nil, logger)
//	if err != nil {
//	    return err
//	}
//
//	if err := supervisor.Connect(); err != nil {
//	    return err
//	}
//	supervisor.StartMonitor()
//	defer func() {
//	    supervisor.StopMonitor()
//	    supervisor.Unbind()
//	}()
package tether

import (
	"log/slog"
	"time"

	"github.com/eleven-am/tether/internal/adapters/grpcbind"
	"github.com/eleven-am/tether/internal/core"
	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
)

// Supervisor owns a connector, a polling monitor, and a result publisher.
type Supervisor = core.Supervisor

// Status is a point-in-time snapshot of a supervisor.
type Status = core.Status

// ConnectorState is the connection lifecycle state tracked by a connector.
type ConnectorState = domain.ConnectorState

const (
	StateNone                      ConnectorState = domain.StateNone
	StateBoundWaitingForConnection ConnectorState = domain.StateBoundWaitingForConnection
	StateBoundConnected            ConnectorState = domain.StateBoundConnected
	StateBoundDisconnected         ConnectorState = domain.StateBoundDisconnected
	StateUnbound                   ConnectorState = domain.StateUnbound
	StateBindingFailed             ConnectorState = domain.StateBindingFailed
)

// PollResult is one published monitor result.
type PollResult = domain.PollResult

// ResultKind discriminates PollResult payloads.
type ResultKind = domain.ResultKind

const (
	ResultConnecting        ResultKind = domain.ResultConnecting
	ResultValue             ResultKind = domain.ResultValue
	ResultConnectionFailure ResultKind = domain.ResultConnectionFailure
)

// BindDriver abstracts the underlying bind mechanism.
type BindDriver = ports.BindDriver

// BindDriverFunc adapts a plain function to the BindDriver interface.
type BindDriverFunc = ports.BindDriverFunc

// BindHandle is the opaque handle to an established binding.
type BindHandle = ports.BindHandle

// ConnectionEvents receives the host's asynchronous connection callbacks.
type ConnectionEvents = ports.ConnectionEvents

// ConnectionHandler receives connection events before the state machine
// transitions, so its side effects are visible to unblocked waiters.
type ConnectionHandler = ports.ConnectionHandler

// Operation is the unit of work the monitor invokes on every poll.
type Operation = ports.Operation

// ConnectorMetrics is a snapshot of connector counters.
type ConnectorMetrics = domain.ConnectorMetrics

// MonitorMetrics is a snapshot of monitor counters.
type MonitorMetrics = domain.MonitorMetrics

// StateChangedEvent is emitted on every connector state transition.
type StateChangedEvent = domain.StateChangedEvent

// GenerationStartedEvent is emitted when the monitor launches a generation.
type GenerationStartedEvent = domain.GenerationStartedEvent

// GenerationStoppedEvent is emitted when a monitor generation exits.
type GenerationStoppedEvent = domain.GenerationStoppedEvent

// Sentinel errors surfaced by supervisors and connectors.
var (
	ErrAlreadyBound = domain.ErrAlreadyBound
	ErrNotBound     = domain.ErrNotBound
	ErrBindFailed   = domain.ErrBindFailed
	ErrRebindFailed = domain.ErrRebindFailed
	ErrTimeout      = domain.ErrTimeout
)

// New creates a supervisor around the given bind driver, connection handler,
// and operation. A nil config uses defaults; a nil logger uses slog.Default().
func New(driver BindDriver, handler ConnectionHandler, operation Operation, config *Config, logger *slog.Logger) (*Supervisor, error) {
	return core.NewSupervisor(driver, handler, operation, config, logger)
}

// GRPCConfig configures the gRPC bind driver.
type GRPCConfig = grpcbind.Config

// NewGRPCDriver creates a bind driver over a gRPC client channel.
func NewGRPCDriver(config *GRPCConfig, logger *slog.Logger) *grpcbind.Driver {
	return grpcbind.NewDriver(config, logger)
}

// GRPCBindingHandler captures the client conn delivered on connect.
type GRPCBindingHandler = grpcbind.BindingHandler

// NewGRPCBindingHandler creates an empty binding handler.
func NewGRPCBindingHandler() *GRPCBindingHandler {
	return grpcbind.NewBindingHandler()
}

// GRPCHealthOperation returns an operation that health-checks the given
// service over the captured conn.
func GRPCHealthOperation(handler *GRPCBindingHandler, service string, timeout time.Duration) Operation {
	return grpcbind.HealthOperation(handler, service, timeout)
}
