package domain

import (
	"time"

	"dario.cat/mergo"
)

type Config struct {
	Name      string          `json:"name"`
	Connector ConnectorConfig `json:"connector"`
	Monitor   MonitorConfig   `json:"monitor"`
}

type ConnectorConfig struct {
	// ConnectionTimeout bounds how long a worker blocks waiting for the
	// connected state before it treats the attempt as failed.
	ConnectionTimeout time.Duration `json:"connection_timeout"`
}

type MonitorConfig struct {
	// PollInterval is the pause between successful operation invocations.
	PollInterval time.Duration `json:"poll_interval"`

	// Sentinel is published in place of an operation result when the
	// invocation fails or races with a disappearing binding.
	Sentinel interface{} `json:"sentinel,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "tether",
		Connector: DefaultConnectorConfig(),
		Monitor:   DefaultMonitorConfig(),
	}
}

func DefaultConnectorConfig() ConnectorConfig {
	return ConnectorConfig{
		ConnectionTimeout: 5 * time.Second,
	}
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollInterval: 100 * time.Millisecond,
		Sentinel:     "-",
	}
}

// Normalize fills unset fields from the defaults and validates the result.
func (c *Config) Normalize() error {
	if err := mergo.Merge(c, *DefaultConfig()); err != nil {
		return NewConfigError("config", err.Error())
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Connector.ConnectionTimeout <= 0 {
		return NewConfigError("connector.connection_timeout", "must be positive")
	}
	if c.Monitor.PollInterval <= 0 {
		return NewConfigError("monitor.poll_interval", "must be positive")
	}
	return nil
}
