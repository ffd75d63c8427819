package session

import (
	"time"
)

// Config represents the session factory configuration.
type Config struct {
	// Name of the slot holding the session.
	Name string `yaml:"name"`
	// CreateDelay simulates the time needed to establish a session.
	CreateDelay time.Duration `yaml:"create_delay"`
	// FailFirst is the number of initial creation attempts that fail.
	FailFirst int `yaml:"fail_first"`
}

// Default sets the default values for the configuration.
func (m *Config) Default() {
	m.Name = "session"
	m.CreateDelay = 10 * time.Millisecond
	m.FailFirst = 0
}
