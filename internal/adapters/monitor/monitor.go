package monitor

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

// Monitor repeatedly invokes an operation over a connection supervised by a
// connector. Each Start replaces the running loop with a fresh generation;
// the new generation waits for its predecessor to exit before executing its
// first iteration, so at most one loop body ever runs the operation.
type Monitor struct {
	connector ports.ConnectorPort
	operation ports.Operation
	rebind    func() error
	sink      ports.ResultSink
	events    ports.EventSink
	config    domain.MonitorConfig
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	current *generation

	generations     atomic.Int64
	polls           atomic.Int64
	operationErrors atomic.Int64
	connectTimeouts atomic.Int64
	rebinds         atomic.Int64
	rebindFailures  atomic.Int64
	lastPoll        atomic.Int64
}

// generation is one run of the polling loop. prev is held only until the
// handoff completes, so finished generations can be collected.
var _ ports.MonitorPort = (*Monitor)(nil)

type generation struct {
	id     string
	cancel chan struct{}
	done   chan struct{}
	prev   *generation

	// rebindFailed is written only by the generation's own goroutine, before
	// it stops itself.
	rebindFailed bool

	cancelOnce sync.Once
}

func (g *generation) stop() {
	g.cancelOnce.Do(func() {
		close(g.cancel)
	})
}

func (g *generation) isCancelled() bool {
	select {
	case <-g.cancel:
		return true
	default:
		return false
	}
}

// New creates a monitor. rebind is invoked after a connection timeout to
// re-arm the connector; a nil rebind, or a rebind error, permanently stops
// the current generation.
func New(conn ports.ConnectorPort, operation ports.Operation, rebind func() error, sink ports.ResultSink, events ports.EventSink, cfg domain.Config, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		connector: conn,
		operation: operation,
		rebind:    rebind,
		sink:      sink,
		events:    events,
		config:    cfg.Monitor,
		timeout:   cfg.Connector.ConnectionTimeout,
		logger:    logger.With("component", "monitor"),
	}
}

// Start launches a new generation, cancelling the current one. The caller is
// never blocked: the wait for the old generation to exit happens on the new
// generation's own goroutine.
func (m *Monitor) Start() {
	m.mu.Lock()

	prev := m.current
	if prev != nil {
		prev.stop()
	}

	g := &generation{
		id:     uuid.NewString(),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
		prev:   prev,
	}
	m.current = g
	m.mu.Unlock()

	m.generations.Add(1)
	started := domain.GenerationStartedEvent{GenerationID: g.id, StartedAt: time.Now()}
	if prev != nil {
		started.ReplacedID = prev.id
		m.logger.Debug("starting generation", "generation_id", g.id, "replaces", prev.id)
	} else {
		m.logger.Debug("starting generation", "generation_id", g.id)
	}
	if m.events != nil {
		m.events.EmitGenerationStarted(started)
	}

	go m.run(g)
}

// Stop cancels the current generation without waiting for it to exit. The
// generation is retained so a subsequent Start still hands off from it.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.logger.Debug("stopping generation", "generation_id", m.current.id)
		m.current.stop()
	}
}

func (m *Monitor) Metrics() domain.MonitorMetrics {
	var lastPoll time.Time
	if nanos := m.lastPoll.Load(); nanos != 0 {
		lastPoll = time.Unix(0, nanos)
	}

	return domain.MonitorMetrics{
		Generations:     m.generations.Load(),
		Polls:           m.polls.Load(),
		OperationErrors: m.operationErrors.Load(),
		ConnectTimeouts: m.connectTimeouts.Load(),
		Rebinds:         m.rebinds.Load(),
		RebindFailures:  m.rebindFailures.Load(),
		LastPoll:        lastPoll,
	}
}

func (m *Monitor) run(g *generation) {
	defer func() {
		if m.events != nil {
			m.events.EmitGenerationStopped(domain.GenerationStoppedEvent{
				GenerationID: g.id,
				StoppedAt:    time.Now(),
				RebindFailed: g.rebindFailed,
			})
		}
		close(g.done)
	}()

	if g.prev != nil {
		<-g.prev.done
		g.prev = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-g.cancel:
			cancel()
		case <-ctx.Done():
		}
	}()

	failure := false
	for !g.isCancelled() {
		next, ok := m.iterate(ctx, g, failure)
		if !ok {
			return
		}
		failure = next
	}
	m.logger.Debug("generation exited", "generation_id", g.id)
}

// iterate runs one loop body. It returns the connection-failure flag for the
// next iteration and whether the loop should keep running.
func (m *Monitor) iterate(ctx context.Context, g *generation, failure bool) (bool, bool) {
	if !failure {
		m.publish(g, domain.ResultConnecting, nil)
	}

	if !m.connector.WaitForState(ctx, domain.StateBoundConnected, m.timeout) {
		if g.isCancelled() {
			return failure, false
		}

		m.connectTimeouts.Add(1)
		m.logger.Error("connection attempt timed out, attempting to rebind", "generation_id", g.id)
		m.publish(g, domain.ResultConnectionFailure, nil)

		m.connector.Unbind()
		if m.rebind == nil {
			m.logger.Error("no rebind configured, stopping generation permanently", "generation_id", g.id)
			g.rebindFailed = true
			g.stop()
			return true, false
		}
		m.rebinds.Add(1)
		if err := m.rebind(); err != nil {
			m.rebindFailures.Add(1)
			m.logger.Error("rebind attempt failed, stopping generation permanently", "generation_id", g.id, "error", err)
			g.rebindFailed = true
			g.stop()
			return true, false
		}
		return true, true
	}

	value := m.invoke(ctx)
	m.polls.Add(1)
	m.lastPoll.Store(time.Now().UnixNano())
	m.publish(g, domain.ResultValue, value)

	select {
	case <-time.After(m.config.PollInterval):
	case <-g.cancel:
	}
	return false, true
}

// invoke runs the operation, degrading any failure to the sentinel value.
// The binding can disappear between the state observation and the call, so
// panics are recovered rather than allowed to kill the loop.
func (m *Monitor) invoke(ctx context.Context) (value interface{}) {
	defer func() {
		if r := recover(); r != nil {
			m.operationErrors.Add(1)
			m.logger.Error("operation panicked", "panic", r)
			value = m.config.Sentinel
		}
	}()

	result, err := m.operation(ctx)
	if err != nil {
		m.operationErrors.Add(1)
		m.logger.Error("operation failed", "error", err)
		return m.config.Sentinel
	}
	return result
}

func (m *Monitor) publish(g *generation, kind domain.ResultKind, value interface{}) {
	if m.sink == nil {
		return
	}

	m.sink.Publish(domain.PollResult{
		Kind:         kind,
		Value:        value,
		GenerationID: g.id,
		Timestamp:    time.Now(),
	})
}
