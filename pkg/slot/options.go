package slot

import (
	log "go.uber.org/zap"
)

// Option configures a Slot.
type Option func(opts *options)

type options struct {
	name     string
	logger   *log.Logger
	observer Observer
}

func defaultOptions() *options {
	return &options{
		name:     "default",
		logger:   log.NewNop(),
		observer: NopObserver{},
	}
}

// WithName sets the slot name used in logs and metrics.
func WithName(name string) Option {
	return func(opts *options) {
		opts.name = name
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *log.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithObserver sets the observer. A nil observer is ignored.
func WithObserver(observer Observer) Option {
	return func(opts *options) {
		if observer != nil {
			opts.observer = observer
		}
	}
}
