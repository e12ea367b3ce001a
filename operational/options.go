package operational

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure an operational diff call.
type Options struct {
	// ActorID attributes every emitted operation. Defaults to a freshly
	// generated id of the form actor_<32 hex>.
	ActorID string

	// Timestamp seeds the logical clock. Defaults to the current time in
	// nanoseconds, which keeps independently produced streams roughly
	// ordered without any coordination guarantee.
	Timestamp int64

	// ConflictResolution is recorded in the changeset metadata and guides
	// Merge. Defaults to LastWriteWins.
	ConflictResolution ConflictResolution

	// Accelerator, when non-nil, is tried before the in-process engine.
	Accelerator Accelerator

	// VerifyAccelerator runs both paths and fails on disagreement.
	VerifyAccelerator bool

	// Logger receives acceleration fallback diagnostics.
	Logger *zap.Logger
}

// Accelerator is an optional native implementation of the operational
// engine. It must be a drop-in behavioral equivalent.
type Accelerator interface {
	Diff(old, new any, opts Options) (*Changeset, error)
	Patch(doc any, cs *Changeset) (any, error)
}

// Option adjusts an Options value.
type Option func(*Options)

// WithActorID attributes operations to a caller-chosen writer id.
func WithActorID(id string) Option {
	return func(o *Options) { o.ActorID = id }
}

// WithTimestamp seeds the logical clock.
func WithTimestamp(ts int64) Option {
	return func(o *Options) { o.Timestamp = ts }
}

// WithConflictResolution records the merge policy.
func WithConflictResolution(cr ConflictResolution) Option {
	return func(o *Options) { o.ConflictResolution = cr }
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

func generateActorID() string {
	u := uuid.New()
	return "actor_" + hex.EncodeToString(u[:])
}

func buildOptions(opts []Option) Options {
	o := Options{ConflictResolution: LastWriteWins}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ActorID == "" {
		o.ActorID = generateActorID()
	}
	if o.Timestamp == 0 {
		o.Timestamp = time.Now().UnixNano()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
