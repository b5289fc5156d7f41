package connector

import (
	"github.com/eleven-am/tether/internal/ports"
)

// decorator wraps the caller-supplied handler for exactly one bind cycle.
// It forwards each callback to the handler first and only then drives the
// state machine, so any goroutine unblocked by the resulting transition
// observes the handler's side effects already applied.
type decorator struct {
	inner     ports.ConnectionHandler
	connector *Connector
}

var _ ports.ConnectionEvents = (*decorator)(nil)

func (d *decorator) OnConnected(binding interface{}) {
	d.inner.OnConnected(binding)
	d.connector.onConnected(d)
}

func (d *decorator) OnDisconnected() {
	d.inner.OnDisconnected()
	d.connector.onDisconnected(d)
}
