package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/tether/internal/domain"
)

func TestManagerFanOutAndUnsubscribe(t *testing.T) {
	m := NewManager(nil)

	first := make(chan domain.StateChangedEvent, 1)
	second := make(chan domain.StateChangedEvent, 1)

	unsubscribeFirst := m.OnStateChanged(func(e domain.StateChangedEvent) { first <- e })
	m.OnStateChanged(func(e domain.StateChangedEvent) { second <- e })

	m.EmitStateChanged(domain.StateChangedEvent{
		ConnectorID: "c-1",
		From:        domain.StateNone,
		To:          domain.StateBoundWaitingForConnection,
		ChangedAt:   time.Now(),
	})

	select {
	case e := <-first:
		assert.Equal(t, domain.StateBoundWaitingForConnection, e.To)
	case <-time.After(time.Second):
		t.Fatal("first handler never received the event")
	}
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second handler never received the event")
	}

	unsubscribeFirst()
	m.EmitStateChanged(domain.StateChangedEvent{ConnectorID: "c-1"})

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("remaining handler never received the second event")
	}
	select {
	case <-first:
		t.Fatal("unsubscribed handler must not receive events")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, int64(2), m.Emitted())
}

func TestManagerDeliversGenerationEvents(t *testing.T) {
	m := NewManager(nil)

	started := make(chan domain.GenerationStartedEvent, 1)
	stopped := make(chan domain.GenerationStoppedEvent, 1)
	m.OnGenerationStarted(func(e domain.GenerationStartedEvent) { started <- e })
	m.OnGenerationStopped(func(e domain.GenerationStoppedEvent) { stopped <- e })

	m.EmitGenerationStarted(domain.GenerationStartedEvent{GenerationID: "g-1", StartedAt: time.Now()})
	m.EmitGenerationStopped(domain.GenerationStoppedEvent{GenerationID: "g-1", StoppedAt: time.Now(), RebindFailed: true})

	select {
	case e := <-started:
		require.Equal(t, "g-1", e.GenerationID)
	case <-time.After(time.Second):
		t.Fatal("started handler never received the event")
	}
	select {
	case e := <-stopped:
		require.Equal(t, "g-1", e.GenerationID)
		require.True(t, e.RebindFailed)
	case <-time.After(time.Second):
		t.Fatal("stopped handler never received the event")
	}
}

func TestManagerRecoversHandlerPanic(t *testing.T) {
	m := NewManager(nil)

	m.OnStateChanged(func(domain.StateChangedEvent) { panic("handler bug") })
	received := make(chan struct{}, 1)
	m.OnStateChanged(func(domain.StateChangedEvent) { received <- struct{}{} })

	m.EmitStateChanged(domain.StateChangedEvent{ConnectorID: "c-1"})

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("panicking handler must not starve the others")
	}
}
