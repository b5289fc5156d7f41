package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eleven-am/tether/internal/adapters/connector"
	"github.com/eleven-am/tether/internal/adapters/events"
	"github.com/eleven-am/tether/internal/adapters/monitor"
	"github.com/eleven-am/tether/internal/adapters/results"
	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
	"github.com/eleven-am/tether/internal/xjson"
)

// Supervisor owns one connector, one polling monitor, the result publisher,
// and the lifecycle event manager, and supplies the monitor's rebind
// function. It is reusable across connect/unbind cycles.
type Supervisor struct {
	config  *domain.Config
	logger  *slog.Logger
	handler ports.ConnectionHandler

	connector ports.ConnectorPort
	monitor   ports.MonitorPort
	publisher *results.Publisher
	events    *events.Manager
}

type Status struct {
	Name        string                  `json:"name"`
	ConnectorID string                  `json:"connector_id"`
	State       string                  `json:"state"`
	Connector   domain.ConnectorMetrics `json:"connector"`
	Monitor     domain.MonitorMetrics   `json:"monitor"`
	Latest      *domain.PollResult      `json:"latest,omitempty"`
}

func NewSupervisor(driver ports.BindDriver, handler ports.ConnectionHandler, operation ports.Operation, config *domain.Config, logger *slog.Logger) (*Supervisor, error) {
	if driver == nil {
		return nil, domain.NewConfigError("driver", "cannot be nil")
	}
	if handler == nil {
		return nil, domain.NewConfigError("handler", "cannot be nil")
	}
	if operation == nil {
		return nil, domain.NewConfigError("operation", "cannot be nil")
	}

	if config == nil {
		config = domain.DefaultConfig()
	}
	if err := config.Normalize(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("supervisor", config.Name)

	eventManager := events.NewManager(logger)
	conn := connector.New(driver, eventManager, logger)
	publisher := results.NewPublisher(logger)

	s := &Supervisor{
		config:    config,
		logger:    logger,
		handler:   handler,
		connector: conn,
		publisher: publisher,
		events:    eventManager,
	}
	s.monitor = monitor.New(conn, operation, s.rebind, publisher, eventManager, *config, logger)

	return s, nil
}

// Connect arms the connector. Fails with domain.ErrAlreadyBound when a
// binding is already live.
func (s *Supervisor) Connect() error {
	return s.connector.Connect(s.handler)
}

// Unbind tears down the binding. The monitor, if running, will observe the
// connection loss on its next wait and attempt a rebind.
func (s *Supervisor) Unbind() {
	s.connector.Unbind()
}

// StartMonitor launches a new polling generation, replacing any running one.
func (s *Supervisor) StartMonitor() {
	s.monitor.Start()
}

// StopMonitor cancels the current polling generation.
func (s *Supervisor) StopMonitor() {
	s.monitor.Stop()
}

func (s *Supervisor) State() domain.ConnectorState {
	return s.connector.State()
}

func (s *Supervisor) IsBound() bool {
	return s.connector.IsBound()
}

func (s *Supervisor) WaitForState(ctx context.Context, target domain.ConnectorState, timeout time.Duration) bool {
	return s.connector.WaitForState(ctx, target, timeout)
}

// AwaitState is WaitForState with an error result: ctx.Err() when the wait
// was cancelled, domain.ErrTimeout when the deadline passed without reaching
// target.
func (s *Supervisor) AwaitState(ctx context.Context, target domain.ConnectorState, timeout time.Duration) error {
	if s.connector.WaitForState(ctx, target, timeout) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: connector is %s, wanted %s", domain.ErrTimeout, s.connector.State(), target)
}

// OnStateChanged registers a handler for connector state transitions and
// returns its unsubscribe function. Handlers run on their own goroutines.
func (s *Supervisor) OnStateChanged(handler func(domain.StateChangedEvent)) func() {
	return s.events.OnStateChanged(handler)
}

// OnGenerationStarted registers a handler for monitor generation launches.
func (s *Supervisor) OnGenerationStarted(handler func(domain.GenerationStartedEvent)) func() {
	return s.events.OnGenerationStarted(handler)
}

// OnGenerationStopped registers a handler for monitor generation exits.
func (s *Supervisor) OnGenerationStopped(handler func(domain.GenerationStoppedEvent)) func() {
	return s.events.OnGenerationStopped(handler)
}

// Subscribe registers a result handler and returns its unsubscribe function.
func (s *Supervisor) Subscribe(handler func(domain.PollResult)) func() {
	return s.publisher.Subscribe(handler)
}

func (s *Supervisor) Latest() (domain.PollResult, bool) {
	return s.publisher.Latest()
}

func (s *Supervisor) Status() *Status {
	status := &Status{
		Name:        s.config.Name,
		ConnectorID: s.connector.ID(),
		State:       s.connector.State().String(),
		Connector:   s.connector.Metrics(),
		Monitor:     s.monitor.Metrics(),
	}

	if latest, ok := s.publisher.Latest(); ok {
		status.Latest = &latest
	}
	return status
}

func (s *Supervisor) StatusJSON() ([]byte, error) {
	return xjson.Marshal(s.Status())
}

// rebind re-arms the connector after the monitor unbound a timed-out
// binding. A rebind failure is fatal for the calling generation.
func (s *Supervisor) rebind() error {
	if err := s.connector.Connect(s.handler); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRebindFailed, err)
	}
	return nil
}
