package structural

import (
	"strconv"

	"github.com/treedoc/reconcile"
)

// Inverse produces a delta that undoes d. Changed descriptors invert
// exactly; additions and removals swap. Moves and text deltas invert on a
// best-effort basis only: a move inverse can land on a shifted index when
// unrelated edits touched the same array, and inverted text ops assume the
// patched string, so Inverse(Inverse(d)) is not guaranteed to equal d.
func Inverse(d Delta) (Delta, error) {
	out := Delta{}
	for k, ch := range d {
		ik, ich, err := inverseChange(k, ch)
		if err != nil {
			return nil, err
		}
		out[ik] = ich
	}
	return out, nil
}

func inverseChange(key string, ch Change) (string, Change, error) {
	switch c := ch.(type) {
	case Added:
		// An insertion at a bare index inverts to a removal at the
		// underscored form of the same index.
		if idx, underscored, ok := arrayKey(key); ok && !underscored {
			return "_" + strconv.Itoa(idx), Removed{Value: c.Value}, nil
		}
		return key, Removed{Value: c.Value}, nil
	case Removed:
		if idx, underscored, ok := arrayKey(key); ok && underscored {
			return strconv.Itoa(idx), Added{Value: c.Value}, nil
		}
		return key, Added{Value: c.Value}, nil
	case Changed:
		return key, Changed{Old: c.New, New: c.Old}, nil
	case Moved:
		idx, _, ok := arrayKey(key)
		if !ok {
			return "", nil, reconcile.PathError(reconcile.CodeInverseFailed, "structural.Inverse", key, "move descriptor at non-index key")
		}
		return "_" + strconv.Itoa(c.From), Moved{From: idx}, nil
	case TextDelta:
		return key, TextDelta{Ops: inverseTextOps(c.Ops)}, nil
	case Nested:
		sub, err := Inverse(c.Delta)
		if err != nil {
			return "", nil, err
		}
		return key, Nested{Delta: sub}, nil
	default:
		return "", nil, reconcile.Errorf(reconcile.CodeInverseFailed, "structural.Inverse", "unknown change type %T", ch)
	}
}

func inverseTextOps(ops []TextOp) []TextOp {
	out := make([]TextOp, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case "insert":
			out = append(out, TextOp{Op: "delete", Range: op.Range, Text: op.Text})
		case "delete":
			out = append(out, TextOp{Op: "insert", Range: op.Range, Text: op.Text})
		case "replace":
			out = append(out, TextOp{
				Op:       "replace",
				OldRange: op.NewRange,
				NewRange: op.OldRange,
				OldText:  op.NewText,
				NewText:  op.OldText,
			})
		}
	}
	return out
}
