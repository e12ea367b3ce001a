// Package document defines the value model shared by every engine: a
// document is the Go form of a decoded JSON tree, and a Path addresses a
// location inside one.
//
// The model is a closed set. Objects are map[string]any, sequences are
// []any, scalars are string, float64, bool and nil. Integer Go values are
// accepted at the boundary and normalized to float64, matching what
// encoding/json produces. Anything else is rejected by Validate; the
// engines branch with exhaustive type switches and never reflect.
package document

import "fmt"

// Validate reports whether v is inside the document model. It walks the
// whole tree and returns the first offending value.
func Validate(v any) error {
	return validate(v, "")
}

func validate(v any, at string) error {
	switch val := v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return nil
	case map[string]any:
		for k, elem := range val {
			if err := validate(elem, at+"/"+k); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, elem := range val {
			if err := validate(elem, fmt.Sprintf("%s/%d", at, i)); err != nil {
				return err
			}
		}
		return nil
	default:
		if at == "" {
			at = "/"
		}
		return fmt.Errorf("unsupported document value %T at %s", v, at)
	}
}

// Clone deep-copies a document. Integer values are normalized to float64 so
// a cloned document compares equal to its own JSON round-trip.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	default:
		// string, float64, bool, nil are immutable
		return val
	}
}

// Equal reports deep value equality between two documents. Numbers compare
// numerically regardless of their Go representation.
func Equal(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, ae := range av {
			be, present := bv[k]
			if !present || !Equal(ae, be) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, ae := range av {
			if !Equal(ae, bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsObject reports whether v is an object document.
func IsObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsArray reports whether v is a sequence document.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsScalar reports whether v is a leaf value (string, number, bool, null).
func IsScalar(v any) bool {
	return !IsObject(v) && !IsArray(v)
}
