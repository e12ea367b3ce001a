package reconcile

import (
	"errors"
	"fmt"
)

// Error is the failure type returned by every engine operation.
//
// Engines never leave partially-applied state behind an Error: patching and
// merging build their results on clones, so a non-nil Error means the input
// documents are untouched and no output was produced.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Op names the operation that failed, e.g. "structural.Patch".
	Op string

	// Path locates the failure inside the document, when known.
	// Rendered in JSON-pointer-ish slash form.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Code categorizes engine failures.
type Code string

const (
	// CodeDiffFailed indicates malformed input to a diff, such as a value
	// outside the document model.
	CodeDiffFailed Code = "DIFF_FAILED"

	// CodePatchFailed indicates a delta referencing a path absent in the
	// target document, or an edit that cannot apply at its path.
	CodePatchFailed Code = "PATCH_FAILED"

	// CodeMergeFailed indicates inputs that cannot be merged.
	CodeMergeFailed Code = "MERGE_FAILED"

	// CodeInverseFailed indicates a delta that cannot be inverted even on a
	// best-effort basis.
	CodeInverseFailed Code = "INVERSE_FAILED"

	// CodeCanonicalizationFailed indicates a provider error or input that
	// has no canonical representation.
	CodeCanonicalizationFailed Code = "CANONICALIZATION_FAILED"

	// CodeProviderUnavailable indicates a missing external collaborator.
	// Callers normally never see it: it triggers the built-in fallbacks.
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s at %s: %v", e.Code, e.Op, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s at %s", e.Code, e.Op, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	}
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted cause.
func Errorf(code Code, op string, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// PathError builds an *Error located at a document path.
func PathError(code Code, op, path string, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDiffFailed reports whether err is a diff failure.
func IsDiffFailed(err error) bool { return IsCode(err, CodeDiffFailed) }

// IsPatchFailed reports whether err is a patch failure.
func IsPatchFailed(err error) bool { return IsCode(err, CodePatchFailed) }

// IsCanonicalizationFailed reports whether err is a canonicalization failure.
func IsCanonicalizationFailed(err error) bool {
	return IsCode(err, CodeCanonicalizationFailed)
}
