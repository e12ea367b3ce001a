// Package operational implements the CRDT-style diff/patch engine. A diff
// is an ordered stream of timestamped, actor-attributed operations meant to
// be transmitted, merged with streams from other uncoordinated writers, and
// replayed deterministically.
package operational

import (
	"encoding/json"
	"fmt"

	"github.com/treedoc/reconcile/document"
)

// Type tags an operation.
type Type string

const (
	// TypeSet assigns a value at a path, creating the leaf key when absent.
	TypeSet Type = "set"
	// TypeDelete removes the value at a path. Deleting an absent object
	// key is a no-op, which keeps set/delete replay idempotent.
	TypeDelete Type = "delete"
	// TypeInsert adds a value at a map key or an array index.
	TypeInsert Type = "insert"
	// TypeMove relocates an array element. The path addresses the
	// destination in the array as it stands before the source is removed;
	// From is the source index.
	TypeMove Type = "move"
)

// Operation is one timestamped edit.
type Operation struct {
	Type      Type
	Path      document.Path
	Value     any
	From      int
	Timestamp int64
	ActorID   string
}

type operationWire struct {
	Type      Type          `json:"type"`
	Path      document.Path `json:"path"`
	Value     any           `json:"value"`
	From      *int          `json:"from,omitempty"`
	Timestamp int64         `json:"timestamp"`
	ActorID   string        `json:"actor_id"`
}

// MarshalJSON renders the wire form. The from field only appears on moves.
func (o Operation) MarshalJSON() ([]byte, error) {
	w := operationWire{
		Type:      o.Type,
		Path:      o.Path,
		Value:     o.Value,
		Timestamp: o.Timestamp,
		ActorID:   o.ActorID,
	}
	if o.Type == TypeMove {
		from := o.From
		w.From = &from
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire form.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var w operationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case TypeSet, TypeDelete, TypeInsert, TypeMove:
	default:
		return fmt.Errorf("unknown operation type %q", w.Type)
	}
	if w.Type == TypeMove && w.From == nil {
		return fmt.Errorf("move operation missing from index")
	}
	*o = Operation{
		Type:      w.Type,
		Path:      w.Path,
		Value:     w.Value,
		Timestamp: w.Timestamp,
		ActorID:   w.ActorID,
	}
	if w.From != nil {
		o.From = *w.From
	}
	return nil
}

// ConflictResolution selects how Merge treats operations that collide.
type ConflictResolution string

const (
	// LastWriteWins keeps only the highest-timestamp operation per path.
	// Operations of different types at an equal path conflate; see Merge.
	LastWriteWins ConflictResolution = "last_write_wins"
	// MergeAll keeps every operation and relies on ordered replay.
	MergeAll ConflictResolution = "merge"
)

// Metadata describes an operation stream.
type Metadata struct {
	Actors             []string           `json:"actors"`
	TimestampRange     [2]int64           `json:"timestamp_range"`
	ConflictResolution ConflictResolution `json:"conflict_resolution"`
}

// Changeset is an ordered operation stream plus its metadata. Operations
// are ordered by emission; replay follows that order, not timestamps.
type Changeset struct {
	Operations []Operation `json:"operations"`
	Metadata   Metadata    `json:"metadata"`
}

// IsEmpty reports whether the changeset carries no operations.
func (c *Changeset) IsEmpty() bool { return c == nil || len(c.Operations) == 0 }
