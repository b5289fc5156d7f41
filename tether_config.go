package tether

import (
	"time"

	"github.com/eleven-am/tether/internal/domain"
)

type Config = domain.Config

type ConnectorConfig = domain.ConnectorConfig

type MonitorConfig = domain.MonitorConfig

func DefaultConfig() *Config {
	return domain.DefaultConfig()
}

func DefaultConnectorConfig() ConnectorConfig {
	return domain.DefaultConnectorConfig()
}

func DefaultMonitorConfig() MonitorConfig {
	return domain.DefaultMonitorConfig()
}

type ConfigBuilder struct {
	config *Config
}

func NewConfigBuilder(name string) *ConfigBuilder {
	config := DefaultConfig()
	config.Name = name
	return &ConfigBuilder{config: config}
}

func (cb *ConfigBuilder) WithConnectionTimeout(timeout time.Duration) *ConfigBuilder {
	cb.config.Connector.ConnectionTimeout = timeout
	return cb
}

func (cb *ConfigBuilder) WithPollInterval(interval time.Duration) *ConfigBuilder {
	cb.config.Monitor.PollInterval = interval
	return cb
}

func (cb *ConfigBuilder) WithSentinel(sentinel interface{}) *ConfigBuilder {
	cb.config.Monitor.Sentinel = sentinel
	return cb
}

func (cb *ConfigBuilder) Build() *Config {
	return cb.config
}
