package grpcbind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/eleven-am/tether/internal/domain"
	"github.com/eleven-am/tether/internal/ports"
)

type Config struct {
	Target string

	ConnectTimeout    time.Duration
	KeepAliveTime     time.Duration
	KeepAliveTimeout  time.Duration
	BackoffBaseDelay  time.Duration
	BackoffMaxDelay   time.Duration
	BackoffMultiplier float64
	BackoffJitter     float64

	// DialOptions are appended after the defaults; transport credentials
	// default to insecure unless overridden here.
	DialOptions []grpc.DialOption
}

// Driver binds to a gRPC endpoint and translates channel connectivity
// transitions into connection events: entering Ready delivers OnConnected
// with the client conn as the binding, leaving Ready delivers
// OnDisconnected. The channel keeps redialing on its own, so a single bind
// cycle can see any number of connect/disconnect pairs.
type Driver struct {
	config *Config
	logger *slog.Logger
}

var _ ports.BindDriver = (*Driver)(nil)

func NewDriver(config *Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 5 * time.Second
	}
	if config.KeepAliveTime == 0 {
		config.KeepAliveTime = 30 * time.Second
	}
	if config.KeepAliveTimeout == 0 {
		config.KeepAliveTimeout = 10 * time.Second
	}
	if config.BackoffBaseDelay == 0 {
		config.BackoffBaseDelay = 100 * time.Millisecond
	}
	if config.BackoffMaxDelay == 0 {
		config.BackoffMaxDelay = 15 * time.Second
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = 1.6
	}
	if config.BackoffJitter == 0 {
		config.BackoffJitter = 0.2
	}

	return &Driver{
		config: config,
		logger: logger.With("component", "grpc-bind-driver", "target", config.Target),
	}
}

func (d *Driver) Bind(events ports.ConnectionEvents) (ports.BindHandle, error) {
	if d.config.Target == "" {
		return nil, domain.NewConfigError("target", "cannot be empty")
	}

	conn, err := grpc.NewClient(d.config.Target, d.dialOptions()...)
	if err != nil {
		d.logger.Error("failed to create client channel", "error", err)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &bindHandle{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go d.watch(ctx, conn, events, h.done)
	conn.Connect()

	d.logger.Debug("channel created, watching connectivity")
	return h, nil
}

func (d *Driver) dialOptions() []grpc.DialOption {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  d.config.BackoffBaseDelay,
				Multiplier: d.config.BackoffMultiplier,
				Jitter:     d.config.BackoffJitter,
				MaxDelay:   d.config.BackoffMaxDelay,
			},
			MinConnectTimeout: d.config.ConnectTimeout,
		}),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                d.config.KeepAliveTime,
			Timeout:             d.config.KeepAliveTimeout,
			PermitWithoutStream: true,
		}),
	}

	return append(opts, d.config.DialOptions...)
}

func (d *Driver) watch(ctx context.Context, conn *grpc.ClientConn, events ports.ConnectionEvents, done chan struct{}) {
	defer close(done)

	connected := false
	state := conn.GetState()

	for {
		if state == connectivity.Ready && !connected {
			connected = true
			d.logger.Debug("channel ready")
			events.OnConnected(conn)
		} else if connected && state != connectivity.Ready {
			connected = false
			d.logger.Debug("channel lost readiness", "state", state.String())
			events.OnDisconnected()
		}

		if state == connectivity.Shutdown {
			return
		}

		if !conn.WaitForStateChange(ctx, state) {
			return
		}
		state = conn.GetState()

		// The channel goes Idle after a failure once its backoff expires;
		// kick it so it keeps redialing for the whole bind cycle.
		if state == connectivity.Idle {
			conn.Connect()
		}
	}
}

type bindHandle struct {
	conn      *grpc.ClientConn
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Close tears the channel down without waiting for the watch goroutine: the
// connector calls Close under its own lock, and the watcher may be blocked
// delivering a callback into that same lock. Late callbacks are discarded by
// the connector's stale-cycle guard.
func (h *bindHandle) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		h.closeErr = h.conn.Close()
	})
	return h.closeErr
}
