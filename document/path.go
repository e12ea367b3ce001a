package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Step is one token of a Path: an object key or an array index.
// Sealed - only Key and Index implement it.
type Step interface {
	step()
	String() string
}

// Key addresses an object member.
type Key string

func (Key) step() {}

// String renders the key.
func (k Key) String() string { return string(k) }

// Index addresses an array element.
type Index int

func (Index) step() {}

// String renders the index in decimal.
func (i Index) String() string { return fmt.Sprintf("%d", int(i)) }

// Path addresses a location inside a document, root first. The zero value
// addresses the document root.
type Path []Step

// String renders a path in slash form for diagnostics, e.g. "/items/2".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// Child extends the path with an object key.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = Key(key)
	return out
}

// At extends the path with an array index.
func (p Path) At(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = Index(i)
	return out
}

// Equal reports whether two paths address the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i, s := range p {
		if s != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON renders the path as a heterogeneous JSON array of strings and
// numbers, the wire form operational diffs use.
func (p Path) MarshalJSON() ([]byte, error) {
	out := make([]any, len(p))
	for i, s := range p {
		switch v := s.(type) {
		case Key:
			out[i] = string(v)
		case Index:
			out[i] = int(v)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the heterogeneous array form. JSON numbers become
// Index steps, strings become Key steps.
func (p *Path) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Path, len(raw))
	for i, tok := range raw {
		switch v := tok.(type) {
		case string:
			out[i] = Key(v)
		case float64:
			if v != float64(int(v)) {
				return fmt.Errorf("path token %d: non-integer index %v", i, v)
			}
			out[i] = Index(int(v))
		default:
			return fmt.Errorf("path token %d: unsupported type %T", i, tok)
		}
	}
	*p = out
	return nil
}
