package slot

import (
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	log "go.uber.org/zap"

	"github.com/yanet-platform/lazyslot/internal/utils/throttler"
)

// refusedLogBurst is the number of refused accesses logged before throttling.
const refusedLogBurst = 3

// Factory produces a new instance of the payload. A non-nil error means that
// no instance was produced.
type Factory[T any] func() (T, error)

// LookupFunc returns an already existing instance, if any. It is consulted
// before the factory when the slot is empty. A hit holding a nil value is
// treated as a miss.
type LookupFunc[T any] func() (T, bool)

// State is the state of the slot gate.
type State int

const (
	StateOpen State = iota
	StateShuttingDown
)

func (m State) String() string {
	switch m {
	case StateOpen:
		return "open"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Slot holds at most one lazily created instance of T.
type Slot[T any] struct {
	factory Factory[T]
	lookup  LookupFunc[T]

	// instance is read without the lock on the fast path and written only
	// while mu is held.
	instance atomic.Pointer[T]
	gate     *Gate
	mu       sync.Mutex
	refused  atomic.Uint64

	name     string
	observer Observer
	log      *log.Logger
}

// New creates an empty open slot that produces its instance with factory.
// It panics if factory is nil.
func New[T any](factory Factory[T], opts ...Option) *Slot[T] {
	if factory == nil {
		panic(ErrNilFactory)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Slot[T]{
		factory:  factory,
		gate:     NewGate(),
		name:     options.name,
		observer: options.observer,
		log:      options.logger.With(log.String("slot", options.name)),
	}
}

// WithLookup installs a hook that is asked for an existing instance before
// the factory is called. It must be called before the slot is shared.
func (m *Slot[T]) WithLookup(lookup LookupFunc[T]) *Slot[T] {
	m.lookup = lookup
	return m
}

// Get returns the shared instance, creating it on first use. The boolean is
// false if the slot is shut down or the instance could not be created.
func (m *Slot[T]) Get() (T, bool) {
	value, err := m.Acquire()
	return value, err == nil
}

// Acquire is like Get but reports why no instance is available. The error
// is either ErrShutdown or wraps ErrFactory.
func (m *Slot[T]) Acquire() (T, error) {
	var zero T

	if m.gate.Closed() {
		return zero, m.refuse()
	}

	if instance := m.instance.Load(); instance != nil {
		// Shutdown closes the gate before dropping the instance, so a
		// second look at the gate rejects instances that were loaded
		// concurrently with teardown.
		if m.gate.Closed() {
			return zero, m.refuse()
		}
		return *instance, nil
	}

	return m.acquireSlow()
}

func (m *Slot[T]) acquireSlow() (T, error) {
	var zero T

	m.mu.Lock()
	defer m.mu.Unlock()

	// Shutdown may have won the race for the lock.
	if m.gate.Closed() {
		return zero, m.refuse()
	}

	// Another caller may have created the instance while we were waiting.
	if instance := m.instance.Load(); instance != nil {
		return *instance, nil
	}

	if m.lookup != nil {
		value, ok, err := m.adopt()
		if err != nil {
			m.observer.ObserveCreate(0, err)
			m.log.Warn("failed to look up existing instance", log.Error(err))
			return zero, err
		}
		if ok {
			m.instance.Store(&value)
			m.observer.ObserveAdopt()
			m.log.Debug("adopted existing instance")
			return value, nil
		}
	}

	start := time.Now()
	value, err := m.create()
	elapsed := time.Since(start)
	m.observer.ObserveCreate(elapsed, err)
	if err != nil {
		// The slot stays empty, so the next call retries.
		m.log.Warn("failed to create instance", log.Error(err))
		return zero, err
	}

	m.instance.Store(&value)
	m.log.Debug("instance created", log.Duration("elapsed", elapsed))

	return value, nil
}

// adopt asks the lookup hook for an existing instance, converting panics into
// errors. Nil hits are treated as misses.
func (m *Slot[T]) adopt() (value T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value, ok, err = zero, false, fmt.Errorf("%w: lookup panic: %v", ErrFactory, r)
		}
	}()

	value, ok = m.lookup()
	if ok && isNil(value) {
		m.log.Debug("lookup returned a nil instance, falling back to the factory")
		var zero T
		return zero, false, nil
	}
	return value, ok, nil
}

// isNil reports whether value is a nil pointer, interface, map, slice,
// channel or function.
func isNil[T any](value T) bool {
	v := reflect.ValueOf(any(value))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// create calls the factory, converting panics into errors.
func (m *Slot[T]) create() (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value, err = zero, fmt.Errorf("%w: factory panic: %v", ErrFactory, r)
		}
	}()

	value, err = m.factory()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrFactory, err)
	}
	return value, nil
}

// refuse accounts an access rejected by the closed gate and returns
// ErrShutdown.
func (m *Slot[T]) refuse() error {
	m.observer.ObserveRefused()

	refused := m.refused.Add(1)
	if !throttler.Throttle(refused, refusedLogBurst) {
		m.log.Warn("access refused, slot is shutting down", log.Uint64("refused", refused))
	}
	return ErrShutdown
}

// Shutdown closes the gate and drops the instance. If the instance implements
// io.Closer it is closed before Shutdown returns. Repeated calls are no-ops.
func (m *Slot[T]) Shutdown() {
	m.mu.Lock()
	first := m.gate.Close()
	instance := m.instance.Swap(nil)
	m.mu.Unlock()

	if !first {
		return
	}

	released := instance != nil
	var err error
	if released {
		err = release(*instance)
	}
	m.observer.ObserveShutdown(released, err)

	if err != nil {
		m.log.Error("failed to release instance", log.Error(err))
		return
	}
	m.log.Info("slot shut down", log.Bool("released", released))
}

// release closes value if it owns resources.
func release[T any](value T) (err error) {
	closer, ok := any(value).(io.Closer)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panic: %v", r)
		}
	}()
	return closer.Close()
}

// State returns the current gate state.
func (m *Slot[T]) State() State {
	if m.gate.Closed() {
		return StateShuttingDown
	}
	return StateOpen
}

// Loaded reports whether the slot currently holds an instance.
func (m *Slot[T]) Loaded() bool {
	return m.instance.Load() != nil
}

// Done returns a channel that is closed once Shutdown has been called.
func (m *Slot[T]) Done() <-chan struct{} {
	return m.gate.Done()
}

// Name returns the slot name.
func (m *Slot[T]) Name() string {
	return m.name
}

// Lazy returns an accessor for a process-wide slot that is itself constructed
// on first use. All calls of the accessor return the same slot.
func Lazy[T any](factory Factory[T], opts ...Option) func() *Slot[T] {
	return sync.OnceValue(func() *Slot[T] {
		return New(factory, opts...)
	})
}
