package structural

import (
	"sort"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
)

// Patch applies a structural delta and returns the patched document. The
// input document is never mutated; on error no partial result escapes.
func Patch(doc any, delta Delta, opts ...Option) (any, error) {
	o := buildOptions(opts)

	if err := document.Validate(doc); err != nil {
		return nil, reconcile.Errorf(reconcile.CodePatchFailed, "structural.Patch", "document: %v", err)
	}

	local := func() (any, error) {
		return applyDelta(document.Clone(doc), delta, "")
	}
	if o.Accelerator == nil {
		return local()
	}
	native := func() (any, error) { return o.Accelerator.Patch(doc, delta) }
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"structural.Patch", native, local, document.Equal)
}

// Validate dry-runs a patch and reports whether it would apply cleanly.
// It never returns an error: any internal failure reads as false.
func Validate(doc any, delta Delta) bool {
	_, err := Patch(doc, delta)
	return err == nil
}

func applyDelta(doc any, delta Delta, at string) (any, error) {
	if delta.IsEmpty() {
		return doc, nil
	}

	// Whole-document change at the root. The "" key doubles as a genuine
	// object member, so against an object the descriptor only counts as a
	// root change when its recorded old value is the document itself.
	if ch, ok := delta[""]; ok && len(delta) == 1 && isRootChange(doc, ch) {
		return applyScalarChange(doc, ch, at)
	}

	switch v := doc.(type) {
	case map[string]any:
		return applyObjectDelta(v, delta, at)
	case []any:
		if delta.looksLikeArrayDelta() {
			return applyArrayDelta(v, delta, at)
		}
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "object delta against array value")
	default:
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "delta against scalar value")
	}
}

// isRootChange disambiguates a sole ""-keyed descriptor. Only objects can
// carry "" as a real member; for them the descriptor addresses the root
// only when the old value it records is the whole document, which is what
// Diff emits for a container changing shape.
func isRootChange(doc any, ch Change) bool {
	if _, isObj := doc.(map[string]any); !isObj {
		return true
	}
	switch c := ch.(type) {
	case Changed:
		return document.Equal(c.Old, doc)
	case Removed:
		return document.Equal(c.Value, doc)
	default:
		return false
	}
}

// applyScalarChange applies a leaf change descriptor to a value.
func applyScalarChange(doc any, ch Change, at string) (any, error) {
	switch c := ch.(type) {
	case Added:
		return document.Clone(c.Value), nil
	case Changed:
		return document.Clone(c.New), nil
	case Removed:
		return nil, nil
	case TextDelta:
		s, ok := doc.(string)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "text delta against non-string value")
		}
		return applyTextOps(s, c.Ops), nil
	case Nested:
		return applyDelta(doc, c.Delta, at)
	default:
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "unexpected change descriptor %T", ch)
	}
}

func applyObjectDelta(obj map[string]any, delta Delta, at string) (any, error) {
	out := obj // already a clone owned by this call

	for key, ch := range delta {
		childAt := at + "/" + key
		existing, present := out[key]

		switch c := ch.(type) {
		case Added:
			out[key] = document.Clone(c.Value)
		case Removed:
			if !present {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", childAt, "removal of absent key")
			}
			delete(out, key)
		case Changed:
			if !present {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", childAt, "change of absent key")
			}
			out[key] = document.Clone(c.New)
		case TextDelta:
			s, ok := existing.(string)
			if !ok {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", childAt, "text delta against non-string value")
			}
			out[key] = applyTextOps(s, c.Ops)
		case Nested:
			if !present {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", childAt, "nested delta for absent key")
			}
			patched, err := applyDelta(existing, c.Delta, childAt)
			if err != nil {
				return nil, err
			}
			out[key] = patched
		case Moved:
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", childAt, "move descriptor outside an array delta")
		}
	}
	return out, nil
}

// applyArrayDelta applies edits in the fixed order that keeps indices
// valid. Removals and move sources splice out together, descending by old
// index; then moved values and additions insert ascending by destination,
// which is already a new-array index; in-place changes land last, once
// every index is in final coordinates.
func applyArrayDelta(arr []any, delta Delta, at string) (any, error) {
	// A splice removes at an old index; dest >= 0 marks a move source
	// whose value re-inserts at dest.
	type splice struct{ idx, dest int }
	type insert struct {
		idx int
		val any
	}
	type valueEdit struct {
		idx int
		ch  Change
	}

	var splices []splice
	var changes []valueEdit
	var inserts []insert

	for key, ch := range delta {
		idx, underscored, ok := arrayKey(key)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at+"/"+key, "non-index key in array delta")
		}
		switch c := ch.(type) {
		case Removed:
			if !underscored {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at+"/"+key, "removal at bare index key")
			}
			splices = append(splices, splice{idx: idx, dest: -1})
		case Moved:
			splices = append(splices, splice{idx: c.From, dest: idx})
		case Added:
			inserts = append(inserts, insert{idx: idx, val: document.Clone(c.Value)})
		case Changed, TextDelta, Nested:
			changes = append(changes, valueEdit{idx: idx, ch: ch})
		}
	}

	out := arr // already a clone owned by this call

	sort.Slice(splices, func(i, j int) bool { return splices[i].idx > splices[j].idx })
	for _, sp := range splices {
		if sp.idx >= len(out) {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "splice index %d out of range %d", sp.idx, len(out))
		}
		if sp.dest >= 0 {
			inserts = append(inserts, insert{idx: sp.dest, val: out[sp.idx]})
		}
		out = append(out[:sp.idx], out[sp.idx+1:]...)
	}

	sort.Slice(inserts, func(i, j int) bool { return inserts[i].idx < inserts[j].idx })
	for _, ie := range inserts {
		idx := ie.idx
		if idx > len(out) {
			idx = len(out)
		}
		out = append(out[:idx], append([]any{ie.val}, out[idx:]...)...)
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].idx < changes[j].idx })
	for _, ce := range changes {
		if ce.idx >= len(out) {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "structural.Patch", at, "change index %d out of range %d", ce.idx, len(out))
		}
		patched, err := applyScalarChange(out[ce.idx], ce.ch, at)
		if err != nil {
			return nil, err
		}
		out[ce.idx] = patched
	}

	return out, nil
}
