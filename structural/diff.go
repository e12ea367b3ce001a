package structural

import (
	"sort"
	"strconv"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
	"github.com/treedoc/reconcile/internal/lcs"
)

// Diff computes a structural delta turning old into new. An empty delta
// means the documents are value-equal. Inputs are never mutated; values
// captured in the delta are deep clones.
func Diff(old, new any, opts ...Option) (Delta, error) {
	o := buildOptions(opts)

	if err := document.Validate(old); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "structural.Diff", "old document: %v", err)
	}
	if err := document.Validate(new); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "structural.Diff", "new document: %v", err)
	}

	local := func() (Delta, error) {
		return diffValueTop(document.Clone(old), document.Clone(new), o), nil
	}
	if o.Accelerator == nil {
		return local()
	}
	native := func() (Delta, error) { return o.Accelerator.Diff(old, new, o) }
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"structural.Diff", native, local, deltasEqual)
}

func deltasEqual(a, b Delta) bool {
	ab, errA := a.MarshalJSON()
	bb, errB := b.MarshalJSON()
	return errA == nil && errB == nil && string(ab) == string(bb)
}

// diffValueTop handles the document roots. Non-container roots that differ
// have no key to hang a change on, so they surface as a whole-document
// change under the empty key, matching how the delta is applied.
func diffValueTop(old, new any, o Options) Delta {
	if document.Equal(old, new) {
		return Delta{}
	}
	if ch := diffValue(old, new, o); ch != nil {
		if n, ok := ch.(Nested); ok {
			return n.Delta
		}
		return Delta{"": ch}
	}
	return Delta{}
}

// diffValue returns the change turning old into new, or nil when equal.
func diffValue(old, new any, o Options) Change {
	if document.Equal(old, new) {
		return nil
	}

	switch ov := old.(type) {
	case map[string]any:
		if nv, ok := new.(map[string]any); ok {
			return Nested{Delta: diffObject(ov, nv, o)}
		}
	case []any:
		if nv, ok := new.([]any); ok {
			return Nested{Delta: diffArray(ov, nv, o)}
		}
	case string:
		if nv, ok := new.(string); ok && o.TextDiff {
			if td := textDelta(ov, nv); td != nil {
				return *td
			}
		}
	}
	return Changed{Old: old, New: new}
}

func diffObject(old, new map[string]any, o Options) Delta {
	keys := make([]string, 0, len(old)+len(new))
	seen := make(map[string]bool, len(old)+len(new))
	for k := range old {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range new {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	d := Delta{}
	for _, k := range keys {
		ov, inOld := old[k]
		nv, inNew := new[k]
		switch {
		case inOld && !inNew:
			d[k] = Removed{Value: ov}
		case !inOld && inNew:
			d[k] = Added{Value: nv}
		default:
			if ch := diffValue(ov, nv, o); ch != nil {
				d[k] = ch
			}
		}
	}
	return d
}

func diffArray(old, new []any, o Options) Delta {
	if o.ArrayDiff == ArraySimple {
		return diffArraySimple(old, new, o)
	}
	return diffArrayLCS(old, new, o)
}

// diffArraySimple compares slot by slot. Extra old slots delete, extra new
// slots insert.
func diffArraySimple(old, new []any, o Options) Delta {
	d := Delta{}
	max := len(old)
	if len(new) > max {
		max = len(new)
	}
	for i := 0; i < max; i++ {
		key := "_" + strconv.Itoa(i)
		switch {
		case i < len(old) && i < len(new):
			if ch := diffValue(old[i], new[i], o); ch != nil {
				d[key] = ch
			}
		case i < len(old):
			d[key] = Removed{Value: old[i]}
		default:
			d[strconv.Itoa(i)] = Added{Value: new[i]}
		}
	}
	return d
}

// diffArrayLCS aligns the arrays first, so a head insertion costs one edit
// instead of rewriting every slot. Leftover deletions and insertions at the
// same index collapse into an in-place change; with IncludeMoves, pairs of
// equal values become move descriptors.
func diffArrayLCS(old, new []any, o Options) Delta {
	al := lcs.Align(old, new, document.Equal)

	deleted, inserted := al.Deleted, al.Inserted
	var moves []lcs.Move
	if o.IncludeMoves {
		moves, deleted, inserted = lcs.PairMoves(old, new, deleted, inserted, document.Equal)
	}

	changes := map[int]Change{}
	deleted, inserted = collapseChanges(old, new, al.Pairs, deleted, inserted, changes, o)

	d := Delta{}
	for _, i := range deleted {
		d["_"+strconv.Itoa(i)] = Removed{Value: old[i]}
	}
	for i, ch := range changes {
		d["_"+strconv.Itoa(i)] = ch
	}
	for _, mv := range moves {
		key := "_" + strconv.Itoa(mv.To)
		if _, taken := d[key]; taken {
			// A deletion already owns this slot. Degrade the move into its
			// delete/insert halves to keep one descriptor per key.
			d["_"+strconv.Itoa(mv.From)] = Removed{Value: old[mv.From]}
			d[strconv.Itoa(mv.To)] = Added{Value: new[mv.To]}
			continue
		}
		d[key] = Moved{From: mv.From}
	}
	for _, j := range inserted {
		d[strconv.Itoa(j)] = Added{Value: new[j]}
	}
	return d
}

// collapseChanges folds a deletion and an insertion at the same index into
// one in-place change. The fold is only sound when treating index i as a
// kept slot stays order-consistent with the alignment: every aligned pair
// must sit entirely before or entirely after i in both arrays. Otherwise
// the patch splice order would land the changed element at the wrong slot,
// so the pair stays a separate delete and insert.
func collapseChanges(old, new []any, pairs [][2]int, deleted, inserted []int, changes map[int]Change, o Options) (remDel, remIns []int) {
	insSet := make(map[int]bool, len(inserted))
	for _, j := range inserted {
		insSet[j] = true
	}

	consistent := func(i int) bool {
		for _, p := range pairs {
			if (p[0] < i) != (p[1] < i) {
				return false
			}
		}
		return true
	}

	collapsed := make(map[int]bool)
	for _, i := range deleted {
		if insSet[i] && consistent(i) {
			collapsed[i] = true
			if ch := diffValue(old[i], new[i], o); ch != nil {
				changes[i] = ch
			}
			continue
		}
		remDel = append(remDel, i)
	}
	for _, j := range inserted {
		if !collapsed[j] {
			remIns = append(remIns, j)
		}
	}
	return remDel, remIns
}
