package operational

import (
	"sort"

	"github.com/treedoc/reconcile/document"
)

// Merge combines changesets from uncoordinated writers into one stream.
// Operations concatenate and sort by timestamp ascending; the conflict
// resolution policy then decides what survives. LastWriteWins keeps only
// the highest-timestamp operation per path - note that this conflates
// operation types, so a later insert can displace an earlier delete at a
// coincidentally equal path. MergeAll keeps every operation and relies on
// timestamp-ordered replay.
func Merge(sets []*Changeset, opts ...Option) (*Changeset, error) {
	o := buildOptions(opts)

	var ops []Operation
	var actors []string
	seen := make(map[string]bool)
	for _, cs := range sets {
		if cs == nil {
			continue
		}
		for _, op := range cs.Operations {
			op.Value = document.Clone(op.Value)
			ops = append(ops, op)
		}
		for _, a := range cs.Metadata.Actors {
			if !seen[a] {
				seen[a] = true
				actors = append(actors, a)
			}
		}
	}

	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Timestamp < ops[j].Timestamp })

	if o.ConflictResolution == LastWriteWins {
		ops = lastWritePerPath(ops)
	}

	meta := Metadata{
		Actors:             actors,
		ConflictResolution: o.ConflictResolution,
	}
	if len(ops) > 0 {
		meta.TimestampRange = [2]int64{ops[0].Timestamp, ops[len(ops)-1].Timestamp}
	}
	return &Changeset{Operations: ops, Metadata: meta}, nil
}

// lastWritePerPath keeps the final operation per path from a
// timestamp-sorted stream, preserving that stream's relative order.
func lastWritePerPath(ops []Operation) []Operation {
	winner := make(map[string]int, len(ops))
	for i, op := range ops {
		winner[op.Path.String()] = i
	}
	out := make([]Operation, 0, len(winner))
	for i, op := range ops {
		if winner[op.Path.String()] == i {
			out = append(out, op)
		}
	}
	return out
}
