package semantic

// Inverse swaps the directions of a semantic delta: added and removed
// triples trade places, modified properties swap old and new values, and
// context changes reverse.
func Inverse(delta *Delta) (*Delta, error) {
	if delta == nil {
		return &Delta{
			AddedTriples:   []Triple{},
			RemovedTriples: []Triple{},
			ContextChanges: emptyContextDiff(),
		}, nil
	}

	out := &Delta{
		AddedTriples:   append([]Triple{}, delta.RemovedTriples...),
		RemovedTriples: append([]Triple{}, delta.AddedTriples...),
		ContextChanges: emptyContextDiff(),
		Metadata:       delta.Metadata,
	}

	for _, nd := range delta.ModifiedNodes {
		inv := NodeDiff{NodeID: nd.NodeID}
		for _, p := range nd.RemovedProperties {
			inv.AddedProperties = append(inv.AddedProperties, PropertyChange{
				Property: p.Property, NewValue: p.OldValue, ChangeType: p.ChangeType,
			})
		}
		for _, p := range nd.AddedProperties {
			inv.RemovedProperties = append(inv.RemovedProperties, PropertyChange{
				Property: p.Property, OldValue: p.NewValue, ChangeType: p.ChangeType,
			})
		}
		for _, p := range nd.ModifiedProperties {
			inv.ModifiedProperties = append(inv.ModifiedProperties, PropertyChange{
				Property: p.Property, OldValue: p.NewValue, NewValue: p.OldValue, ChangeType: p.ChangeType,
			})
		}
		out.ModifiedNodes = append(out.ModifiedNodes, inv)
	}

	for k, v := range delta.ContextChanges.AddedMappings {
		out.ContextChanges.RemovedMappings[k] = v
	}
	for k, v := range delta.ContextChanges.RemovedMappings {
		out.ContextChanges.AddedMappings[k] = v
	}
	for k, pair := range delta.ContextChanges.ChangedMappings {
		out.ContextChanges.ChangedMappings[k] = [2]string{pair[1], pair[0]}
	}
	out.ContextChanges.BaseChanges = [2]any{delta.ContextChanges.BaseChanges[1], delta.ContextChanges.BaseChanges[0]}

	out.Metadata.SemanticEquivalence = len(out.AddedTriples) == 0 && len(out.RemovedTriples) == 0
	return out, nil
}
