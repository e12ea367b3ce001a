// Package accel is the acceleration boundary shared by every engine: try a
// native implementation first, fall back transparently to the in-process
// one. Both paths must agree on semantics; the boundary never changes
// results, only (maybe) how fast they arrive.
package accel

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Error is the narrow failure type of the boundary.
type Error struct {
	// Code is Unavailable or Mismatch.
	Code ErrorCode

	// Op names the accelerated operation.
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes boundary failures.
type ErrorCode string

const (
	// Unavailable means no native implementation could serve the call.
	// It always triggers fallback and is never surfaced to callers.
	Unavailable ErrorCode = "UNAVAILABLE"

	// Mismatch means the native and in-process results disagreed while
	// verification was on. This is a hard error: a disagreeing
	// accelerator is a bug, not a degradation.
	Mismatch ErrorCode = "MISMATCH"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("accel %s: %s: %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("accel %s: %s", e.Code, e.Op)
}

// Unwrap exposes the cause.
func (e *Error) Unwrap() error { return e.Err }

// ErrUnavailable is the sentinel a native implementation returns when it
// cannot serve a particular call.
var ErrUnavailable = &Error{Code: Unavailable, Op: "native"}

// IsUnavailable reports whether err marks a missing native implementation.
func IsUnavailable(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == Unavailable
}

// IsMismatch reports whether err marks native/local disagreement.
func IsMismatch(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == Mismatch
}

// Policy controls one boundary crossing.
type Policy struct {
	// Logger receives fallback diagnostics. Nil means silent.
	Logger *zap.Logger

	// Verify runs both paths and compares, turning disagreement into a
	// Mismatch error. Meant for test builds; production leaves it off
	// and gets silent fallback.
	Verify bool
}

// Call runs op through the boundary. The native path is tried first; a nil
// native func, an Unavailable error, or any other native failure falls back
// to local. "Not available", "not implemented" and native runtime errors
// are treated identically - logged, never surfaced.
//
// With Verify on, both paths run and equal decides whether their results
// agree; disagreement returns a Mismatch error instead of either result.
func Call[T any](p Policy, op string, native, local func() (T, error), equal func(a, b T) bool) (T, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if native == nil {
		return local()
	}

	nres, nerr := native()
	if nerr != nil {
		if IsUnavailable(nerr) {
			log.Debug("native implementation unavailable, using fallback",
				zap.String("op", op))
		} else {
			log.Warn("native implementation failed, using fallback",
				zap.String("op", op), zap.Error(nerr))
		}
		return local()
	}

	if !p.Verify {
		return nres, nil
	}

	lres, lerr := local()
	if lerr != nil {
		var zero T
		return zero, lerr
	}
	if equal != nil && !equal(nres, lres) {
		var zero T
		return zero, &Error{Code: Mismatch, Op: op,
			Err: fmt.Errorf("native and in-process results disagree")}
	}
	return lres, nil
}
