package operational

import (
	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
)

// Patch replays a changeset against a document, strictly in emission
// order. The input document is never mutated.
func Patch(doc any, cs *Changeset, opts ...Option) (any, error) {
	o := buildOptions(opts)

	if err := document.Validate(doc); err != nil {
		return nil, reconcile.Errorf(reconcile.CodePatchFailed, "operational.Patch", "document: %v", err)
	}

	local := func() (any, error) {
		out := document.Clone(doc)
		if cs == nil {
			return out, nil
		}
		for _, op := range cs.Operations {
			next, err := applyOp(out, op)
			if err != nil {
				return nil, err
			}
			out = next
		}
		return out, nil
	}
	if o.Accelerator == nil {
		return local()
	}
	native := func() (any, error) { return o.Accelerator.Patch(doc, cs) }
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"operational.Patch", native, local, document.Equal)
}

// Validate dry-runs a changeset and reports whether it would replay
// cleanly. Internal failures read as false, never as an error.
func Validate(doc any, cs *Changeset) bool {
	_, err := Patch(doc, cs)
	return err == nil
}

func applyOp(doc any, op Operation) (any, error) {
	switch op.Type {
	case TypeSet, TypeInsert, TypeDelete:
		return applyLeafOp(doc, op.Path, op)
	case TypeMove:
		if len(op.Path) == 0 {
			return nil, reconcile.Errorf(reconcile.CodePatchFailed, "operational.Patch", "move operation with empty path")
		}
		dest, ok := op.Path[len(op.Path)-1].(document.Index)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "move destination must be an array index")
		}
		return descend(doc, op.Path[:len(op.Path)-1], op.Path, func(parent any) (any, error) {
			return applyMove(parent, int(dest), op.From, op.Path)
		})
	default:
		return nil, reconcile.Errorf(reconcile.CodePatchFailed, "operational.Patch", "unknown operation type %q", op.Type)
	}
}

func applyLeafOp(doc any, path document.Path, op Operation) (any, error) {
	if len(path) == 0 {
		// Root-addressed operations replace or clear the document.
		if op.Type == TypeDelete {
			return nil, nil
		}
		return document.Clone(op.Value), nil
	}
	return descend(doc, path[:len(path)-1], path, func(parent any) (any, error) {
		return applyLeaf(parent, path[len(path)-1], op)
	})
}

// descend walks to the parent of the operation target and applies f there,
// threading the updated container back up. Missing intermediate steps are
// patch failures.
func descend(node any, steps document.Path, full document.Path, f func(parent any) (any, error)) (any, error) {
	if len(steps) == 0 {
		return f(node)
	}
	switch step := steps[0].(type) {
	case document.Key:
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", full.String(), "key step into non-object")
		}
		child, present := obj[string(step)]
		if !present {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", full.String(), "path step %q absent", string(step))
		}
		updated, err := descend(child, steps[1:], full, f)
		if err != nil {
			return nil, err
		}
		obj[string(step)] = updated
		return obj, nil
	case document.Index:
		arr, ok := node.([]any)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", full.String(), "index step into non-array")
		}
		i := int(step)
		if i < 0 || i >= len(arr) {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", full.String(), "index %d out of range %d", i, len(arr))
		}
		updated, err := descend(arr[i], steps[1:], full, f)
		if err != nil {
			return nil, err
		}
		arr[i] = updated
		return arr, nil
	default:
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", full.String(), "unknown path step")
	}
}

func applyLeaf(parent any, step document.Step, op Operation) (any, error) {
	switch s := step.(type) {
	case document.Key:
		obj, ok := parent.(map[string]any)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "key step into non-object")
		}
		key := string(s)
		switch op.Type {
		case TypeSet, TypeInsert:
			obj[key] = document.Clone(op.Value)
		case TypeDelete:
			// Absent keys delete to a no-op so replaying a stream twice
			// stays idempotent for set/delete operations.
			delete(obj, key)
		}
		return obj, nil
	case document.Index:
		arr, ok := parent.([]any)
		if !ok {
			return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "index step into non-array")
		}
		i := int(s)
		switch op.Type {
		case TypeSet:
			if i < 0 || i >= len(arr) {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "set index %d out of range %d", i, len(arr))
			}
			arr[i] = document.Clone(op.Value)
			return arr, nil
		case TypeDelete:
			if i < 0 || i >= len(arr) {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "delete index %d out of range %d", i, len(arr))
			}
			return append(arr[:i], arr[i+1:]...), nil
		case TypeInsert:
			if i < 0 {
				return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "insert index %d negative", i)
			}
			if i > len(arr) {
				i = len(arr)
			}
			val := document.Clone(op.Value)
			return append(arr[:i], append([]any{val}, arr[i:]...)...), nil
		}
	}
	return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", op.Path.String(), "unsupported leaf step for %s", op.Type)
}

// applyMove removes the source element and reinserts it at the
// destination, which addresses the array before removal; the insertion
// point drops by one when the source precedes it.
func applyMove(parent any, to, from int, path document.Path) (any, error) {
	arr, ok := parent.([]any)
	if !ok {
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", path.String(), "move within non-array")
	}
	if from < 0 || from >= len(arr) {
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", path.String(), "move source %d out of range %d", from, len(arr))
	}
	if to < 0 || to > len(arr) {
		return nil, reconcile.PathError(reconcile.CodePatchFailed, "operational.Patch", path.String(), "move destination %d out of range %d", to, len(arr))
	}
	elem := arr[from]
	arr = append(arr[:from], arr[from+1:]...)
	if from < to {
		to--
	}
	if to > len(arr) {
		to = len(arr)
	}
	return append(arr[:to], append([]any{elem}, arr[to:]...)...), nil
}
