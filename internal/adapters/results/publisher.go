package results

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
	"github.com/eleven-am/tether/internal/xjson"
)

// Publisher fans poll results out to subscribers and keeps the latest result
// available for snapshots. Handlers run on the publishing goroutine; a
// subscriber that needs another goroutine does its own posting.
type Publisher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string]func(domain.PollResult)
	latest   *domain.PollResult

	published atomic.Int64
}

var _ ports.ResultSink = (*Publisher)(nil)

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		logger:   logger.With("component", "result-publisher"),
		handlers: make(map[string]func(domain.PollResult)),
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (p *Publisher) Subscribe(handler func(domain.PollResult)) func() {
	id := uuid.NewString()

	p.mu.Lock()
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

func (p *Publisher) Publish(result domain.PollResult) {
	p.mu.Lock()
	p.latest = &result
	handlers := make([]func(domain.PollResult), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	p.published.Add(1)

	for _, h := range handlers {
		h(result)
	}
}

// Latest returns the most recently published result, if any.
func (p *Publisher) Latest() (domain.PollResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.latest == nil {
		return domain.PollResult{}, false
	}
	return *p.latest, true
}

func (p *Publisher) LatestJSON() ([]byte, error) {
	latest, ok := p.Latest()
	if !ok {
		return nil, domain.ErrNoResults
	}
	return xjson.Marshal(latest)
}

func (p *Publisher) Published() int64 {
	return p.published.Load()
}
