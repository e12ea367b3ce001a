package operational

import (
	"encoding/json"
	"sort"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
	"github.com/treedoc/reconcile/internal/lcs"
)

// Diff computes the operation stream turning old into new. Every operation
// is stamped by a per-call logical clock seeded at the base timestamp and
// attributed to the single actor of the call. The emission order is fixed
// per container: moves, deletions descending, in-place changes ascending,
// insertions ascending. Patch replays that order, so the stream is
// deterministic for equal inputs and options.
func Diff(old, new any, opts ...Option) (*Changeset, error) {
	o := buildOptions(opts)

	if err := document.Validate(old); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "operational.Diff", "old document: %v", err)
	}
	if err := document.Validate(new); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "operational.Diff", "new document: %v", err)
	}

	local := func() (*Changeset, error) {
		d := &differ{clock: NewClockAt(o.Timestamp), actor: o.ActorID}
		d.diffValues(document.Clone(old), document.Clone(new), nil)
		// The range upper bound is the last issued timestamp, matching
		// what Merge recomputes from the operations themselves.
		last := o.Timestamp
		if n := len(d.ops); n > 0 {
			last = d.ops[n-1].Timestamp
		}
		return &Changeset{
			Operations: d.ops,
			Metadata: Metadata{
				Actors:             []string{o.ActorID},
				TimestampRange:     [2]int64{o.Timestamp, last},
				ConflictResolution: o.ConflictResolution,
			},
		}, nil
	}
	if o.Accelerator == nil {
		return local()
	}
	native := func() (*Changeset, error) { return o.Accelerator.Diff(old, new, o) }
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"operational.Diff", native, local, changesetsEqual)
}

func changesetsEqual(a, b *Changeset) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ab) == string(bb)
}

type differ struct {
	clock *Clock
	actor string
	ops   []Operation
}

func (d *differ) emit(t Type, path document.Path, value any, from int) {
	d.ops = append(d.ops, Operation{
		Type:      t,
		Path:      path,
		Value:     value,
		From:      from,
		Timestamp: d.clock.Next(),
		ActorID:   d.actor,
	})
}

func (d *differ) diffValues(old, new any, path document.Path) {
	if document.Equal(old, new) {
		return
	}
	switch ov := old.(type) {
	case map[string]any:
		if nv, ok := new.(map[string]any); ok {
			d.diffObjects(ov, nv, path)
			return
		}
	case []any:
		if nv, ok := new.([]any); ok {
			d.diffArrays(ov, nv, path)
			return
		}
	}
	d.emit(TypeSet, path, new, 0)
}

func (d *differ) diffObjects(old, new map[string]any, path document.Path) {
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

	for _, k := range keys {
		ov, inOld := old[k]
		nv, inNew := new[k]
		switch {
		case inOld && !inNew:
			d.emit(TypeDelete, path.Child(k), nil, 0)
		case !inOld && inNew:
			d.emit(TypeSet, path.Child(k), nv, 0)
		default:
			d.diffValues(ov, nv, path.Child(k))
		}
	}
}

// diffArrays aligns the arrays, pairs equal-value delete/insert couples
// into moves, and emits the stream phase by phase. Because patch replays
// operations against the document as it stands mid-stream, every emitted
// index is computed from a simulation of the preceding operations rather
// than from old-array coordinates.
func (d *differ) diffArrays(old, new []any, path document.Path) {
	al := lcs.Align(old, new, document.Equal)
	moves, deleted, inserted := lcs.PairMoves(old, new, al.Deleted, al.Inserted, document.Equal)
	collapsed, deleted, inserted := collapseInPlace(al.Pairs, deleted, inserted)

	// Simulation state: element ids are old indices; insertions get
	// negative markers.
	sim := make([]int, len(old))
	for i := range sim {
		sim[i] = i
	}
	pos := func(id int) int {
		for p, v := range sim {
			if v == id {
				return p
			}
		}
		return -1
	}

	// Survivor ids in final order decide where each move lands.
	finalOrder := buildFinalOrder(al.Pairs, collapsed, moves, len(new))
	rank := make(map[int]int, len(finalOrder))
	for r, id := range finalOrder {
		rank[id] = r
	}
	settled := make(map[int]bool, len(finalOrder))
	for _, p := range al.Pairs {
		settled[p[0]] = true
	}
	for _, i := range collapsed {
		settled[i] = true
	}

	sort.Slice(moves, func(i, j int) bool {
		if moves[i].From != moves[j].From {
			return moves[i].From < moves[j].From
		}
		return moves[i].To < moves[j].To
	})
	for _, mv := range moves {
		from := pos(mv.From)
		sim = append(sim[:from], sim[from+1:]...)

		insertAt := 0
		for p, id := range sim {
			if settled[id] && rank[id] < rank[mv.From] {
				insertAt = p + 1
			}
		}
		// The wire destination is the index before the source is
		// removed; patch compensates when the source precedes it.
		to := insertAt
		if from < insertAt {
			to = insertAt + 1
		}
		d.emit(TypeMove, path.At(to), nil, from)

		sim = append(sim[:insertAt], append([]int{mv.From}, sim[insertAt:]...)...)
		settled[mv.From] = true
	}

	delPos := make([]int, 0, len(deleted))
	for _, id := range deleted {
		delPos = append(delPos, pos(id))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(delPos)))
	for _, p := range delPos {
		d.emit(TypeDelete, path.At(p), nil, 0)
		sim = append(sim[:p], sim[p+1:]...)
	}

	sort.Ints(collapsed)
	for _, id := range collapsed {
		d.diffValues(old[id], new[id], path.At(pos(id)))
	}

	sort.Ints(inserted)
	for _, j := range inserted {
		d.emit(TypeInsert, path.At(j), new[j], 0)
		sim = append(sim[:j], append([]int{-(j + 1)}, sim[j:]...)...)
	}
}

// collapseInPlace folds deletion/insertion pairs at the same index into
// in-place changes when that index stays order-consistent with the
// alignment, mirroring the structural engine's rule.
func collapseInPlace(pairs [][2]int, deleted, inserted []int) (collapsed, remDel, remIns []int) {
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

	folded := make(map[int]bool)
	for _, i := range deleted {
		if insSet[i] && consistent(i) {
			folded[i] = true
			collapsed = append(collapsed, i)
			continue
		}
		remDel = append(remDel, i)
	}
	for _, j := range inserted {
		if !folded[j] {
			remIns = append(remIns, j)
		}
	}
	return collapsed, remDel, remIns
}

// buildFinalOrder lists surviving element ids by their index in the new
// array. Insertions are not survivors and are skipped.
func buildFinalOrder(pairs [][2]int, collapsed []int, moves []lcs.Move, newLen int) []int {
	byNew := make(map[int]int, newLen)
	for _, p := range pairs {
		byNew[p[1]] = p[0]
	}
	for _, i := range collapsed {
		byNew[i] = i
	}
	for _, mv := range moves {
		byNew[mv.To] = mv.From
	}
	order := make([]int, 0, len(byNew))
	for j := 0; j < newLen; j++ {
		if id, ok := byNew[j]; ok {
			order = append(order, id)
		}
	}
	return order
}
