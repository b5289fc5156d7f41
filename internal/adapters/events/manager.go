package events

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
)

// Manager fans lifecycle events out to registered handlers. Handlers run on
// their own goroutines, so emitters can publish while holding internal locks
// and a slow or panicking handler cannot stall a state transition.
type Manager struct {
	logger *slog.Logger

	mu                        sync.RWMutex
	stateChangedHandlers      map[string]func(domain.StateChangedEvent)
	generationStartedHandlers map[string]func(domain.GenerationStartedEvent)
	generationStoppedHandlers map[string]func(domain.GenerationStoppedEvent)

	emitted atomic.Int64
}

var _ ports.EventSink = (*Manager)(nil)

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		logger:                    logger.With("component", "event-manager"),
		stateChangedHandlers:      make(map[string]func(domain.StateChangedEvent)),
		generationStartedHandlers: make(map[string]func(domain.GenerationStartedEvent)),
		generationStoppedHandlers: make(map[string]func(domain.GenerationStoppedEvent)),
	}
}

// OnStateChanged registers a handler for connector state transitions and
// returns its unsubscribe function.
func (m *Manager) OnStateChanged(handler func(domain.StateChangedEvent)) func() {
	id := uuid.NewString()

	m.mu.Lock()
	m.stateChangedHandlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.stateChangedHandlers, id)
		m.mu.Unlock()
	}
}

// OnGenerationStarted registers a handler for monitor generation launches and
// returns its unsubscribe function.
func (m *Manager) OnGenerationStarted(handler func(domain.GenerationStartedEvent)) func() {
	id := uuid.NewString()

	m.mu.Lock()
	m.generationStartedHandlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.generationStartedHandlers, id)
		m.mu.Unlock()
	}
}

// OnGenerationStopped registers a handler for monitor generation exits and
// returns its unsubscribe function.
func (m *Manager) OnGenerationStopped(handler func(domain.GenerationStoppedEvent)) func() {
	id := uuid.NewString()

	m.mu.Lock()
	m.generationStoppedHandlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.generationStoppedHandlers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) EmitStateChanged(event domain.StateChangedEvent) {
	m.mu.RLock()
	handlers := make([]func(domain.StateChangedEvent), 0, len(m.stateChangedHandlers))
	for _, h := range m.stateChangedHandlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	m.emitted.Add(1)
	for _, handler := range handlers {
		handler := handler
		go m.safeCall(func() { handler(event) })
	}
}

func (m *Manager) EmitGenerationStarted(event domain.GenerationStartedEvent) {
	m.mu.RLock()
	handlers := make([]func(domain.GenerationStartedEvent), 0, len(m.generationStartedHandlers))
	for _, h := range m.generationStartedHandlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	m.emitted.Add(1)
	for _, handler := range handlers {
		handler := handler
		go m.safeCall(func() { handler(event) })
	}
}

func (m *Manager) EmitGenerationStopped(event domain.GenerationStoppedEvent) {
	m.mu.RLock()
	handlers := make([]func(domain.GenerationStoppedEvent), 0, len(m.generationStoppedHandlers))
	for _, h := range m.generationStoppedHandlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	m.emitted.Add(1)
	for _, handler := range handlers {
		handler := handler
		go m.safeCall(func() { handler(event) })
	}
}

func (m *Manager) Emitted() int64 {
	return m.emitted.Load()
}

func (m *Manager) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event handler panicked", "panic", r)
		}
	}()
	fn()
}
