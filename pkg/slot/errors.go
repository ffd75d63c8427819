package slot

import (
	"errors"
)

var (
	// ErrShutdown is returned when the slot has been shut down.
	ErrShutdown = errors.New("slot is shutting down")
	// ErrFactory wraps errors (and recovered panics) of the factory.
	ErrFactory = errors.New("failed to create instance")
	// ErrNilFactory is the panic value of New when no factory is given.
	ErrNilFactory = errors.New("slot factory is nil")
)
