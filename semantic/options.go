package semantic

import "go.uber.org/zap"

// BlankNodeStrategy selects how blank node identity is derived during
// normalization.
type BlankNodeStrategy string

const (
	// BlankNodesHash fingerprints each blank node from the statements it
	// participates in and relabels canonically. The default.
	BlankNodesHash BlankNodeStrategy = "hash"
	// BlankNodesPreserve keeps whatever labels the projection produced.
	// Documents differing only in blank node labels will then not compare
	// equal.
	BlankNodesPreserve BlankNodeStrategy = "preserve"
)

// Expander fully resolves a document against its linked-data context. The
// engine treats it as a black box; a nil Expander means documents are
// diffed as-is.
type Expander interface {
	Expand(doc any) (any, error)
}

// TripleSerializer converts between documents and triple lists. When nil,
// or when ToTriples fails, the built-in extractor runs instead as a
// degraded fallback.
type TripleSerializer interface {
	ToTriples(expanded any) ([]Triple, error)
	FromTriples(triples []Triple) (any, error)
}

// Accelerator is an optional native implementation of the semantic engine.
// Implementations must be drop-in behavioral equivalents of the in-process
// engine.
type Accelerator interface {
	Diff(old, new any, opts Options) (*Delta, error)
	Patch(doc any, delta *Delta) (any, error)
}

// Options configure a semantic engine call.
type Options struct {
	// Normalize relabels blank nodes canonically before comparison.
	Normalize bool

	// ContextAware additionally diffs the documents' @context mappings.
	ContextAware bool

	// BlankNodes selects the normalization strategy.
	BlankNodes BlankNodeStrategy

	// Expander resolves documents before projection. Optional.
	Expander Expander

	// Serializer projects documents to triples and back. Optional; the
	// built-in extractor covers projection when absent.
	Serializer TripleSerializer

	// Accelerator, when non-nil, is tried before the in-process
	// implementation. Any accelerator failure falls back silently.
	Accelerator Accelerator

	// VerifyAccelerator runs both paths and fails on disagreement.
	VerifyAccelerator bool

	// Logger receives fallback diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Option adjusts an Options value.
type Option func(*Options)

// WithNormalize toggles blank node normalization.
func WithNormalize(enabled bool) Option {
	return func(o *Options) { o.Normalize = enabled }
}

// WithContextAware toggles @context diffing.
func WithContextAware(enabled bool) Option {
	return func(o *Options) { o.ContextAware = enabled }
}

// WithBlankNodes selects the blank node strategy.
func WithBlankNodes(s BlankNodeStrategy) Option {
	return func(o *Options) { o.BlankNodes = s }
}

// WithExpander installs the expansion collaborator.
func WithExpander(e Expander) Option {
	return func(o *Options) { o.Expander = e }
}

// WithSerializer installs the RDF serialization collaborator.
func WithSerializer(s TripleSerializer) Option {
	return func(o *Options) { o.Serializer = s }
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
	o := Options{
		Normalize:    true,
		ContextAware: true,
		BlankNodes:   BlankNodesHash,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
