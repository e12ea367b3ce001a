package semantic

import "github.com/treedoc/reconcile/document"

// PropertyChange records one property-level difference on a node. OldValue
// and NewValue are nil when the change is a pure addition or removal.
type PropertyChange struct {
	Property   string  `json:"property"`
	OldValue   *Object `json:"old_value,omitempty"`
	NewValue   *Object `json:"new_value,omitempty"`
	ChangeType string  `json:"change_type"`
}

// NodeDiff groups the triple-level changes touching one subject.
type NodeDiff struct {
	NodeID             string           `json:"node_id"`
	AddedProperties    []PropertyChange `json:"added_properties"`
	RemovedProperties  []PropertyChange `json:"removed_properties"`
	ModifiedProperties []PropertyChange `json:"modified_properties"`
}

// ContextDiff describes changes to the documents' @context mappings.
// BaseChanges always holds the old and new @base values, nil when absent.
type ContextDiff struct {
	AddedMappings   map[string]string    `json:"added_mappings"`
	RemovedMappings map[string]string    `json:"removed_mappings"`
	ChangedMappings map[string][2]string `json:"changed_mappings"`
	BaseChanges     [2]any               `json:"base_changes"`
}

// IsEmpty reports whether the context diff records no mapping changes and
// no base change.
func (c ContextDiff) IsEmpty() bool {
	return len(c.AddedMappings) == 0 && len(c.RemovedMappings) == 0 &&
		len(c.ChangedMappings) == 0 &&
		document.Equal(c.BaseChanges[0], c.BaseChanges[1])
}

func emptyContextDiff() ContextDiff {
	return ContextDiff{
		AddedMappings:   map[string]string{},
		RemovedMappings: map[string]string{},
		ChangedMappings: map[string][2]string{},
	}
}

// Metadata describes how a semantic delta was computed.
type Metadata struct {
	NormalizationAlgorithm string `json:"normalization_algorithm"`
	BlankNodeHandling      string `json:"blank_node_handling"`
	SemanticEquivalence    bool   `json:"semantic_equivalence"`
}

// Delta is the result of a semantic diff: the triples only present in the
// new document, the triples only present in the old one, per-node
// groupings of those changes, and context changes.
type Delta struct {
	AddedTriples   []Triple    `json:"added_triples"`
	RemovedTriples []Triple    `json:"removed_triples"`
	ModifiedNodes  []NodeDiff  `json:"modified_nodes"`
	ContextChanges ContextDiff `json:"context_changes"`
	Metadata       Metadata    `json:"metadata"`
}

// IsEmpty reports whether the delta records no changes at all.
func (d *Delta) IsEmpty() bool {
	return d == nil || (len(d.AddedTriples) == 0 && len(d.RemovedTriples) == 0 &&
		d.ContextChanges.IsEmpty())
}
