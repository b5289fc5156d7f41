package grpcbind

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
)

// BindingHandler is a ConnectionHandler that captures the client conn
// delivered on connect and clears it on disconnect. The capture happens
// before any waiter blocked on the connected state is released, so an
// operation running after a successful wait normally observes a live conn.
// The conn can still disappear between observation and use; callers treat
// that as a recoverable per-iteration failure.
type BindingHandler struct {
	mu   sync.RWMutex
	conn *grpc.ClientConn
}

var _ ports.ConnectionHandler = (*BindingHandler)(nil)

func NewBindingHandler() *BindingHandler {
	return &BindingHandler{}
}

func (h *BindingHandler) OnConnected(binding interface{}) {
	conn, _ := binding.(*grpc.ClientConn)

	h.mu.Lock()
	h.conn = conn
	h.mu.Unlock()
}

func (h *BindingHandler) OnDisconnected() {
	h.mu.Lock()
	h.conn = nil
	h.mu.Unlock()
}

func (h *BindingHandler) Conn() *grpc.ClientConn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conn
}

// HealthOperation returns an Operation that checks the given service's
// health over the captured conn. It is the polling workload used when no
// application-specific operation is supplied.
func HealthOperation(handler *BindingHandler, service string, timeout time.Duration) ports.Operation {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(ctx context.Context) (interface{}, error) {
		conn := handler.Conn()
		if conn == nil {
			return nil, domain.ErrNotBound
		}

		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := grpc_health_v1.NewHealthClient(conn).Check(checkCtx, &grpc_health_v1.HealthCheckRequest{
			Service: service,
		})
		if err != nil {
			return nil, err
		}
		return resp.GetStatus().String(), nil
	}
}
