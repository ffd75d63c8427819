package slot

import (
	"time"
)

// Observer receives notifications about slot transitions. Implementations
// must be safe for concurrent use and must not call back into the slot.
type Observer interface {
	// ObserveCreate is called after every factory invocation.
	ObserveCreate(elapsed time.Duration, err error)
	// ObserveAdopt is called when the lookup hook supplied the instance.
	ObserveAdopt()
	// ObserveRefused is called when access is refused by the closed gate.
	ObserveRefused()
	// ObserveShutdown is called once, by the call that closed the gate.
	// released reports whether an instance was dropped, err is the result
	// of closing it.
	ObserveShutdown(released bool, err error)
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

var _ Observer = NopObserver{}

func (NopObserver) ObserveCreate(time.Duration, error) {}

func (NopObserver) ObserveAdopt() {}

func (NopObserver) ObserveRefused() {}

func (NopObserver) ObserveShutdown(bool, error) {}
