package structural

import "go.uber.org/zap"

// ArrayMode selects the array diff algorithm.
type ArrayMode string

const (
	// ArrayLCS aligns arrays by longest common subsequence before emitting
	// edits. The default.
	ArrayLCS ArrayMode = "lcs"
	// ArraySimple compares arrays index by index. Cheaper, and blind to
	// shifts: inserting at the head rewrites every following slot.
	ArraySimple ArrayMode = "simple"
)

// Options configure a structural diff call.
type Options struct {
	// IncludeMoves pairs a deletion with an insertion of an equal value
	// into a move descriptor. Pairing is first-fit by ascending insert
	// index against the earliest unmatched deletion, which is
	// deterministic but ambiguous when an array holds duplicate values.
	IncludeMoves bool

	// ArrayDiff selects the array algorithm.
	ArrayDiff ArrayMode

	// TextDiff enables character-level deltas for long strings. A string
	// is eligible when the old value exceeds 60 code points and the two
	// values are at least half similar; otherwise a plain change is
	// emitted.
	TextDiff bool

	// Accelerator, when non-nil, is tried before the in-process
	// implementation. Any accelerator failure falls back silently.
	Accelerator Accelerator

	// VerifyAccelerator runs both paths and fails on disagreement.
	// Intended for test builds only.
	VerifyAccelerator bool

	// Logger receives acceleration fallback diagnostics. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Accelerator is an optional native implementation of the structural
// engine. Implementations must be drop-in behavioral equivalents of the
// in-process engine; the boundary never changes semantics.
type Accelerator interface {
	Diff(old, new any, opts Options) (Delta, error)
	Patch(doc any, delta Delta) (any, error)
}

// Option adjusts an Options value, in the functional style.
type Option func(*Options)

// WithMoves toggles move detection.
func WithMoves(enabled bool) Option {
	return func(o *Options) { o.IncludeMoves = enabled }
}

// WithArrayDiff selects the array algorithm.
func WithArrayDiff(mode ArrayMode) Option {
	return func(o *Options) { o.ArrayDiff = mode }
}

// WithTextDiff toggles text deltas for long strings.
func WithTextDiff(enabled bool) Option {
	return func(o *Options) { o.TextDiff = enabled }
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

// WithLogger sets the diagnostics logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

func buildOptions(opts []Option) Options {
	o := Options{
		IncludeMoves: true,
		ArrayDiff:    ArrayLCS,
		TextDiff:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
