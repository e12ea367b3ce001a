package operational

import (
	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/document"
)

// Inverse produces a best-effort undo stream: operation order reverses,
// sets become deletes, deletes become null sets, inserts become deletes,
// moves swap direction. The mapping is intentionally lossy - no prior
// values are carried in this representation, so a delete can only be
// undone to null, and a set cannot restore what it overwrote.
func Inverse(cs *Changeset) (*Changeset, error) {
	if cs == nil {
		return &Changeset{}, nil
	}
	out := make([]Operation, 0, len(cs.Operations))
	for i := len(cs.Operations) - 1; i >= 0; i-- {
		inv, err := inverseOp(cs.Operations[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return &Changeset{Operations: out, Metadata: cs.Metadata}, nil
}

func inverseOp(op Operation) (Operation, error) {
	inv := Operation{
		Path:      append(document.Path(nil), op.Path...),
		Timestamp: op.Timestamp,
		ActorID:   op.ActorID,
	}
	switch op.Type {
	case TypeSet:
		inv.Type = TypeDelete
	case TypeDelete:
		inv.Type = TypeSet
		inv.Value = nil
	case TypeInsert:
		inv.Type = TypeDelete
	case TypeMove:
		if len(op.Path) == 0 {
			return Operation{}, reconcile.Errorf(reconcile.CodeInverseFailed, "operational.Inverse", "move operation with empty path")
		}
		dest, ok := op.Path[len(op.Path)-1].(document.Index)
		if !ok {
			return Operation{}, reconcile.PathError(reconcile.CodeInverseFailed, "operational.Inverse", op.Path.String(), "move destination must be an array index")
		}
		to := int(dest)
		landed := to
		if op.From < to {
			landed = to - 1
		}
		invTo := op.From
		if landed < op.From {
			invTo = op.From + 1
		}
		inv.Type = TypeMove
		inv.From = landed
		inv.Path = append(op.Path[:len(op.Path)-1:len(op.Path)-1], document.Index(invTo))
	default:
		return Operation{}, reconcile.Errorf(reconcile.CodeInverseFailed, "operational.Inverse", "unknown operation type %q", op.Type)
	}
	return inv, nil
}
