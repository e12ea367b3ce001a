// Package structural implements the human-readable diff/patch engine. Its
// deltas follow the jsondiffpatch wire format: objects diff key by key,
// arrays diff by LCS alignment with optional move detection, and long
// strings degrade to character-level text deltas.
package structural

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Change describes one edit inside a Delta.
// Sealed - only Added, Removed, Changed, Moved, TextDelta and Nested
// implement it.
type Change interface {
	change()
}

// Added introduces a value at a key or array index.
// Wire form: [value]
type Added struct {
	Value any
}

func (Added) change() {}

// Removed deletes the value at a key or array index.
// Wire form: [old, 0, 0]
type Removed struct {
	Value any
}

func (Removed) change() {}

// Changed replaces one scalar (or whole subtree) with another.
// Wire form: [old, new]
type Changed struct {
	Old any
	New any
}

func (Changed) change() {}

// Moved relocates an array element. The descriptor sits at the destination
// index; From is the source index in the old array.
// Wire form: ["", from, 3]
type Moved struct {
	From int
}

func (Moved) change() {}

// TextDelta is a character-level edit script for a long string.
// Wire form: [{"text_diff": ops}, 0, 2]
type TextDelta struct {
	Ops []TextOp
}

func (TextDelta) change() {}

// TextOp is one text edit. Ranges are rune offsets, delete/replace ranges
// in the old string, insert ranges in the new string.
type TextOp struct {
	Op       string `json:"op"` // "insert" | "delete" | "replace"
	Range    []int  `json:"range,omitempty"`
	Text     string `json:"text,omitempty"`
	OldRange []int  `json:"old_range,omitempty"`
	NewRange []int  `json:"new_range,omitempty"`
	OldText  string `json:"old_text,omitempty"`
	NewText  string `json:"new_text,omitempty"`
}

// Nested carries a sub-delta for an object value or an array value.
// Wire form: a JSON object.
type Nested struct {
	Delta Delta
}

func (Nested) change() {}

// Delta maps path segments to change descriptors. Object deltas use the
// member key directly. Array deltas use index keys: "_<i>" for removals,
// moves and in-place changes, bare "<i>" for insertions. An empty Delta
// means the two documents are value-equal.
type Delta map[string]Change

// IsEmpty reports whether the delta describes no change.
func (d Delta) IsEmpty() bool { return len(d) == 0 }

// arrayKey reports whether a delta key addresses an array slot, returning
// the index and whether it is underscore-prefixed.
func arrayKey(key string) (idx int, underscored, ok bool) {
	s := key
	if strings.HasPrefix(key, "_") {
		underscored = true
		s = key[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, underscored, true
}

// looksLikeArrayDelta reports whether every key of d addresses an array
// slot. Patch uses it to disambiguate nested deltas when the target value
// is an array.
func (d Delta) looksLikeArrayDelta() bool {
	if len(d) == 0 {
		return false
	}
	for k := range d {
		if _, _, ok := arrayKey(k); !ok {
			return false
		}
	}
	return true
}

const (
	magicDeleted  = 0
	magicTextDiff = 2
	magicMoved    = 3
)

// MarshalJSON renders the jsondiffpatch wire form.
func (d Delta) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		cb, err := marshalChange(d[k])
		if err != nil {
			return nil, fmt.Errorf("delta key %q: %w", k, err)
		}
		b.Write(cb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func marshalChange(c Change) ([]byte, error) {
	switch ch := c.(type) {
	case Added:
		return json.Marshal([]any{ch.Value})
	case Removed:
		return json.Marshal([]any{ch.Value, magicDeleted, magicDeleted})
	case Changed:
		return json.Marshal([]any{ch.Old, ch.New})
	case Moved:
		return json.Marshal([]any{"", ch.From, magicMoved})
	case TextDelta:
		return json.Marshal([]any{map[string]any{"text_diff": ch.Ops}, magicDeleted, magicTextDiff})
	case Nested:
		return json.Marshal(ch.Delta)
	default:
		return nil, fmt.Errorf("unknown change type %T", c)
	}
}

// UnmarshalJSON parses the jsondiffpatch wire form back into typed changes.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Delta, len(raw))
	for k, v := range raw {
		ch, err := unmarshalChange(v)
		if err != nil {
			return fmt.Errorf("delta key %q: %w", k, err)
		}
		out[k] = ch
	}
	*d = out
	return nil
}

func unmarshalChange(data json.RawMessage) (Change, error) {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if strings.HasPrefix(trimmed, "{") {
		var sub Delta
		if err := json.Unmarshal(data, &sub); err != nil {
			return nil, err
		}
		return Nested{Delta: sub}, nil
	}

	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, err
	}
	switch len(arr) {
	case 1:
		return Added{Value: arr[0]}, nil
	case 2:
		return Changed{Old: arr[0], New: arr[1]}, nil
	case 3:
		mid, midOK := arr[1].(float64)
		tag, tagOK := arr[2].(float64)
		if !tagOK {
			return nil, fmt.Errorf("malformed change triple")
		}
		switch {
		case tag == magicMoved:
			if !midOK || mid != float64(int(mid)) {
				return nil, fmt.Errorf("move source must be an integer index")
			}
			return Moved{From: int(mid)}, nil
		case tag == magicTextDiff:
			return unmarshalTextDelta(arr[0])
		case midOK && mid == 0 && tag == 0:
			return Removed{Value: arr[0]}, nil
		default:
			return nil, fmt.Errorf("unknown change triple tag %v", arr[2])
		}
	default:
		return nil, fmt.Errorf("change array of length %d", len(arr))
	}
}

func unmarshalTextDelta(v any) (Change, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("text delta payload must be an object")
	}
	rawOps, ok := obj["text_diff"]
	if !ok {
		return nil, fmt.Errorf("text delta payload missing text_diff")
	}
	// Round-trip through JSON to reuse the typed decoder.
	data, err := json.Marshal(rawOps)
	if err != nil {
		return nil, err
	}
	var ops []TextOp
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, err
	}
	return TextDelta{Ops: ops}, nil
}
