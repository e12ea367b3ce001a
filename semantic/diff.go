package semantic

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
)

// Diff compares the RDF meaning of two documents. Both are projected to
// triple sets, blank nodes are normalized, and the result is the set
// difference plus per-node groupings and context changes.
func Diff(old, new any, opts ...Option) (*Delta, error) {
	o := buildOptions(opts)
	if err := document.Validate(old); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "semantic.Diff", "old document: %v", err)
	}
	if err := document.Validate(new); err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "semantic.Diff", "new document: %v", err)
	}

	local := func() (*Delta, error) { return diffLocal(old, new, o) }
	var native func() (*Delta, error)
	if o.Accelerator != nil {
		native = func() (*Delta, error) { return o.Accelerator.Diff(old, new, o) }
	}
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"semantic.Diff", native, local, deltasEqual)
}

func diffLocal(old, new any, o Options) (*Delta, error) {
	oldTriples, err := projectTriples(old, o)
	if err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "semantic.Diff", "project old: %v", err)
	}
	newTriples, err := projectTriples(new, o)
	if err != nil {
		return nil, reconcile.Errorf(reconcile.CodeDiffFailed, "semantic.Diff", "project new: %v", err)
	}
	if o.Normalize {
		oldTriples = normalizeBlankNodes(oldTriples, o.BlankNodes)
		newTriples = normalizeBlankNodes(newTriples, o.BlankNodes)
	}

	added, removed := tripleSetDiff(oldTriples, newTriples)

	ctx := emptyContextDiff()
	if o.ContextAware {
		ctx = compareContexts(old, new)
	}

	return &Delta{
		AddedTriples:   added,
		RemovedTriples: removed,
		ModifiedNodes:  groupNodeDiffs(added, removed),
		ContextChanges: ctx,
		Metadata: Metadata{
			NormalizationAlgorithm: normalizationAlgorithm(o),
			BlankNodeHandling:      string(o.BlankNodes),
			SemanticEquivalence:    len(added) == 0 && len(removed) == 0,
		},
	}, nil
}

// normalizationAlgorithm names the relabeling that actually ran: blank
// nodes are only rewritten when normalization is on and the hash strategy
// is selected.
func normalizationAlgorithm(o Options) string {
	if o.Normalize && o.BlankNodes == BlankNodesHash {
		return "urdna2015"
	}
	return "none"
}

// Equivalent reports whether two documents express the same graph after
// normalization.
func Equivalent(old, new any, opts ...Option) (bool, error) {
	d, err := Diff(old, new, opts...)
	if err != nil {
		return false, err
	}
	return d.Metadata.SemanticEquivalence, nil
}

// projectTriples resolves and projects one document. The serialization
// collaborator is preferred; on absence or failure the built-in extractor
// runs instead.
func projectTriples(doc any, o Options) ([]Triple, error) {
	expanded := doc
	if o.Expander != nil {
		var err error
		expanded, err = o.Expander.Expand(doc)
		if err != nil {
			return nil, err
		}
	}
	if o.Serializer != nil {
		triples, err := o.Serializer.ToTriples(expanded)
		if err == nil {
			return triples, nil
		}
		o.Logger.Debug("triple serializer failed, using built-in extractor",
			zap.Error(err))
	}
	e := extractor{labels: make(map[string]string)}
	e.walk(expanded, "")
	return e.triples, nil
}

// tripleSetDiff returns the triples only in new and only in old, each list
// deduplicated and in first-occurrence order.
func tripleSetDiff(oldTriples, newTriples []Triple) (added, removed []Triple) {
	added, removed = []Triple{}, []Triple{}
	oldSet := make(map[string]bool, len(oldTriples))
	for _, t := range oldTriples {
		oldSet[t.key()] = true
	}
	newSet := make(map[string]bool, len(newTriples))
	for _, t := range newTriples {
		newSet[t.key()] = true
	}

	seen := make(map[string]bool)
	for _, t := range newTriples {
		k := t.key()
		if !oldSet[k] && !seen[k] {
			seen[k] = true
			added = append(added, t)
		}
	}
	seen = make(map[string]bool)
	for _, t := range oldTriples {
		k := t.key()
		if !newSet[k] && !seen[k] {
			seen[k] = true
			removed = append(removed, t)
		}
	}
	return added, removed
}

// groupNodeDiffs buckets added and removed triples by subject. Within a
// subject, an added and a removed triple sharing a predicate pair into a
// modified property; pairing is first-available, not best-match.
func groupNodeDiffs(added, removed []Triple) []NodeDiff {
	type bucket struct {
		adds map[string][]Triple
		rems map[string][]Triple
	}
	nodes := make(map[string]*bucket)
	get := func(subject string) *bucket {
		b, ok := nodes[subject]
		if !ok {
			b = &bucket{adds: make(map[string][]Triple), rems: make(map[string][]Triple)}
			nodes[subject] = b
		}
		return b
	}
	for _, t := range added {
		b := get(t.Subject)
		b.adds[t.Predicate] = append(b.adds[t.Predicate], t)
	}
	for _, t := range removed {
		b := get(t.Subject)
		b.rems[t.Predicate] = append(b.rems[t.Predicate], t)
	}

	subjects := make([]string, 0, len(nodes))
	for s := range nodes {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	out := make([]NodeDiff, 0, len(nodes))
	for _, subject := range subjects {
		b := nodes[subject]
		nd := NodeDiff{
			NodeID:             subject,
			AddedProperties:    []PropertyChange{},
			RemovedProperties:  []PropertyChange{},
			ModifiedProperties: []PropertyChange{},
		}

		preds := make(map[string]bool)
		for p := range b.adds {
			preds[p] = true
		}
		for p := range b.rems {
			preds[p] = true
		}
		sorted := make([]string, 0, len(preds))
		for p := range preds {
			sorted = append(sorted, p)
		}
		sort.Strings(sorted)

		for _, pred := range sorted {
			adds, rems := b.adds[pred], b.rems[pred]
			if len(adds) > 0 && len(rems) > 0 {
				oldObj, newObj := rems[0].Object, adds[0].Object
				nd.ModifiedProperties = append(nd.ModifiedProperties, PropertyChange{
					Property: pred, OldValue: &oldObj, NewValue: &newObj, ChangeType: "value",
				})
				adds, rems = adds[1:], rems[1:]
			}
			for _, t := range adds {
				obj := t.Object
				nd.AddedProperties = append(nd.AddedProperties, PropertyChange{
					Property: pred, NewValue: &obj, ChangeType: "value",
				})
			}
			for _, t := range rems {
				obj := t.Object
				nd.RemovedProperties = append(nd.RemovedProperties, PropertyChange{
					Property: pred, OldValue: &obj, ChangeType: "value",
				})
			}
		}
		out = append(out, nd)
	}
	return out
}

func deltasEqual(a, b *Delta) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
