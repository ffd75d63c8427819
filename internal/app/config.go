package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/yanet-platform/lazyslot/internal/monitoring/logger"
	"github.com/yanet-platform/lazyslot/internal/server"
	"github.com/yanet-platform/lazyslot/internal/session"
)

// Config is the slot host configuration.
type Config struct {
	Logger    *logger.Config   `yaml:"logging"`
	Server    *server.Config   `yaml:"server"`
	Session   *session.Config  `yaml:"session"`
	Consumers *ConsumersConfig `yaml:"consumers"`

	// ShutdownTimeout bounds the graceful teardown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ConsumersConfig configures the session consumers.
type ConsumersConfig struct {
	// Count is the number of concurrent consumers.
	Count int `yaml:"count"`
	// Interval between two uses of the session by one consumer.
	Interval time.Duration `yaml:"interval"`
}

// Default sets the default values for the configuration.
func (m *ConsumersConfig) Default() {
	m.Count = 4
	m.Interval = time.Second
}

// DefaultConfig returns the configuration used for omitted fields.
func DefaultConfig() *Config {
	config := &Config{
		Logger:          &logger.Config{},
		Server:          &server.Config{},
		Session:         &session.Config{},
		Consumers:       &ConsumersConfig{},
		ShutdownTimeout: 10 * time.Second,
	}
	config.Logger.Default()
	config.Server.Default()
	config.Session.Default()
	config.Consumers.Default()

	return config
}

// Validate checks the configuration for values the host cannot work with.
func (m *Config) Validate() error {
	if m.Consumers.Count < 0 {
		return fmt.Errorf("consumers count must not be negative: %d", m.Consumers.Count)
	}
	if m.Consumers.Count > 0 && m.Consumers.Interval <= 0 {
		return fmt.Errorf("consumers interval must be positive: %s", m.Consumers.Interval)
	}
	if m.Session.FailFirst < 0 {
		return fmt.Errorf("session fail_first must not be negative: %d", m.Session.FailFirst)
	}
	return nil
}

// LoadConfig reads the configuration from path on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
