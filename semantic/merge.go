package semantic

import "github.com/treedoc/reconcile/document"

// Merge combines semantic deltas. Triple lists concatenate without
// deduplication; context mappings shallow-merge with later deltas winning,
// including last-writer-wins on the base change.
func Merge(deltas []*Delta, opts ...Option) (*Delta, error) {
	o := buildOptions(opts)

	out := &Delta{
		AddedTriples:   []Triple{},
		RemovedTriples: []Triple{},
		ContextChanges: emptyContextDiff(),
		Metadata: Metadata{
			NormalizationAlgorithm: normalizationAlgorithm(o),
			BlankNodeHandling:      string(o.BlankNodes),
		},
	}
	for _, d := range deltas {
		if d == nil {
			continue
		}
		out.AddedTriples = append(out.AddedTriples, d.AddedTriples...)
		out.RemovedTriples = append(out.RemovedTriples, d.RemovedTriples...)
		out.ModifiedNodes = append(out.ModifiedNodes, d.ModifiedNodes...)

		for k, v := range d.ContextChanges.AddedMappings {
			out.ContextChanges.AddedMappings[k] = v
		}
		for k, v := range d.ContextChanges.RemovedMappings {
			out.ContextChanges.RemovedMappings[k] = v
		}
		for k, v := range d.ContextChanges.ChangedMappings {
			out.ContextChanges.ChangedMappings[k] = v
		}
		if !document.Equal(d.ContextChanges.BaseChanges[0], d.ContextChanges.BaseChanges[1]) {
			out.ContextChanges.BaseChanges = d.ContextChanges.BaseChanges
		}
	}
	out.Metadata.SemanticEquivalence = len(out.AddedTriples) == 0 && len(out.RemovedTriples) == 0
	return out, nil
}
