package ports

import (
	"github.com/eleven-am/tether/internal/domain"
)

// EventSink receives lifecycle events from the connector and the monitor.
// Emitters may hold internal locks while emitting, so implementations must
// not call back into the emitting component synchronously.
type EventSink interface {
	EmitStateChanged(event domain.StateChangedEvent)
	EmitGenerationStarted(event domain.GenerationStartedEvent)
	EmitGenerationStopped(event domain.GenerationStoppedEvent)
}
