package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Config selects a profiling mode and output directory.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a Config.
type Option func(Config) Config

// Make returns a Config with opts applied.
func Make(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode selects the profiling mode, one of [Modes].
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the output directory. An empty path uses a temporary
// directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Enabled reports whether c selects a mode this build supports.
func (c Config) Enabled() bool {
	_, ok := modes[c.Mode]

	return ok
}

// Start begins profiling and returns the session. If profiling is not
// compiled in, or c selects no supported mode, the session is a no-op.
// Stop is always safe to call.
func (c Config) Start() Stopper {
	if !c.Enabled() {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
