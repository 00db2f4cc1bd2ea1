package profile

// Stopper ends a running profile and flushes its output.
type Stopper interface{ Stop() }

// Option modifies the settings of a profile before it starts.
type Option func(settings) settings

type settings struct {
	mode  string
	path  string
	quiet bool
}

// WithMode selects the profiling mode. See [Modes].
func WithMode(mode string) Option {
	return func(s settings) settings {
		s.mode = mode

		return s
	}
}

// WithPath sets the directory profile output is written to.
func WithPath(path string) Option {
	return func(s settings) settings {
		s.path = path

		return s
	}
}

// WithQuiet suppresses the messages [github.com/pkg/profile] logs on start
// and stop.
func WithQuiet(quiet bool) Option {
	return func(s settings) settings {
		s.quiet = quiet

		return s
	}
}

// Start begins profiling as configured by opts.
//
// If no mode is set, the mode is unknown, or the binary was built without the
// pprof tag, Start returns a Stopper that does nothing. The result is always
// safe to Stop.
func Start(opts ...Option) Stopper {
	var s settings

	for _, opt := range opts {
		if opt != nil {
			s = opt(s)
		}
	}

	if s.mode == "" {
		return ignore{}
	}

	return start(s)
}

type ignore struct{}

func (ignore) Stop() {}
