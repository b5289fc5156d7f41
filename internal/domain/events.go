package domain

import (
	"time"
)

type ResultKind int

const (
	// ResultConnecting is published while the monitor is waiting for the
	// connection to become usable.
	ResultConnecting ResultKind = iota

	// ResultValue carries the outcome of one operation invocation. A failed
	// invocation degrades to the configured sentinel value.
	ResultValue

	// ResultConnectionFailure is published when the wait for a usable
	// connection timed out and a rebind is being attempted.
	ResultConnectionFailure
)

func (k ResultKind) String() string {
	switch k {
	case ResultConnecting:
		return "connecting"
	case ResultValue:
		return "value"
	case ResultConnectionFailure:
		return "connection_failure"
	default:
		return "unknown"
	}
}

type PollResult struct {
	Kind         ResultKind  `json:"kind"`
	Value        interface{} `json:"value,omitempty"`
	GenerationID string      `json:"generation_id"`
	Timestamp    time.Time   `json:"timestamp"`
}

type StateChangedEvent struct {
	ConnectorID string         `json:"connector_id"`
	From        ConnectorState `json:"from"`
	To          ConnectorState `json:"to"`
	ChangedAt   time.Time      `json:"changed_at"`
}

type GenerationStartedEvent struct {
	GenerationID string    `json:"generation_id"`
	ReplacedID   string    `json:"replaced_id,omitempty"`
	StartedAt    time.Time `json:"started_at"`
}

type GenerationStoppedEvent struct {
	GenerationID string    `json:"generation_id"`
	StoppedAt    time.Time `json:"stopped_at"`
	RebindFailed bool      `json:"rebind_failed"`
}
