package canonical

import "go.uber.org/zap"

// Accelerator is an optional native implementation of the canonicalization
// engine. Implementations must produce byte-identical output to the
// in-process forms.
type Accelerator interface {
	JSON(doc any) (string, error)
	RDF(doc any, algorithm string) (string, error)
}

// Options configure a canonicalization call.
type Options struct {
	// Provider overrides provider resolution entirely.
	Provider Provider

	// ProviderName labels the explicit provider in cache keys and
	// diagnostics.
	ProviderName string

	// ConfigPath points at a YAML provider config, consulted before the
	// environment.
	ConfigPath string

	// SkipCache bypasses the process-wide canonicalization cache.
	SkipCache bool

	// Accelerator, when non-nil, is tried before the in-process
	// implementation.
	Accelerator Accelerator

	// VerifyAccelerator runs both paths and fails on disagreement.
	VerifyAccelerator bool

	// Logger receives resolution and fallback diagnostics. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Option adjusts an Options value.
type Option func(*Options)

// WithProvider installs an explicit canonicalization provider.
func WithProvider(name string, p Provider) Option {
	return func(o *Options) {
		o.Provider = p
		o.ProviderName = name
	}
}

// WithConfigPath selects the provider config file.
func WithConfigPath(path string) Option {
	return func(o *Options) { o.ConfigPath = path }
}

// WithSkipCache bypasses the canonicalization cache.
func WithSkipCache(skip bool) Option {
	return func(o *Options) { o.SkipCache = skip }
}

// WithAccelerator installs a native implementation attempt.
func WithAccelerator(a Accelerator) Option {
	return func(o *Options) { o.Accelerator = a }
}

// WithVerifyAccelerator cross-checks native output against the in-process
// engine and fails on mismatch.
func WithVerifyAccelerator(verify bool) Option {
	return func(o *Options) { o.VerifyAccelerator = verify }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
