package tracecap

// Options configures tracer behavior.
type Options struct {
	logger         Logger
	internCapacity uint32 // Max interned snapshots. 0 disables interning.
	disabled       bool   // Start with capture disabled.
}

func defaultOptions() Options {
	return Options{
		logger: DiscardLogger{},
	}
}

// Option configures tracer options using the functional options pattern.
type Option func(*Options)

// WithLogger sets the logger used for sweep and enable/disable events.
// The default discards everything.
func WithLogger(log Logger) Option {
	return func(opts *Options) {
		opts.logger = log
	}
}

// WithInternCache enables snapshot interning with a bounded LRU of the
// given capacity. Repeated captures at the same call site then share one
// canonical Traceback instead of each holding their own code references.
func WithInternCache(capacity uint32) Option {
	return func(opts *Options) {
		opts.internCapacity = capacity
	}
}

// WithDisabled starts the tracer with capture turned off; Get returns nil
// until SetEnabled(true).
func WithDisabled() Option {
	return func(opts *Options) {
		opts.disabled = true
	}
}
