package domain

import "time"

type ConnectorMetrics struct {
	State           ConnectorState `json:"state"`
	BindAttempts    int64          `json:"bind_attempts"`
	BindFailures    int64          `json:"bind_failures"`
	ConnectedCount  int64          `json:"connected_count"`
	DisconnectCount int64          `json:"disconnect_count"`
	LastStateChange time.Time      `json:"last_state_change"`
}

type MonitorMetrics struct {
	Generations     int64     `json:"generations"`
	Polls           int64     `json:"polls"`
	OperationErrors int64     `json:"operation_errors"`
	ConnectTimeouts int64     `json:"connect_timeouts"`
	Rebinds         int64     `json:"rebinds"`
	RebindFailures  int64     `json:"rebind_failures"`
	LastPoll        time.Time `json:"last_poll"`
}
