package metrics

// Namespace prefixes every metric name registered by the slot host.
const Namespace = "lazyslot"

type MetricOption func(opts *MetricOpts)

type MetricOpts struct {
	ConstLabels Labels
	Description string
}

func WithDescription(description string) MetricOption {
	return func(opts *MetricOpts) {
		opts.Description = description
	}
}

func WithConstLabels(labels Labels) MetricOption {
	return func(opts *MetricOpts) {
		opts.ConstLabels = labels
	}
}

// ApplyOpts folds the options into MetricOpts.
func ApplyOpts(opts []MetricOption) MetricOpts {
	var options MetricOpts
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
