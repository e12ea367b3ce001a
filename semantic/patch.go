package semantic

import (
	"strconv"
	"strings"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
)

// Patch applies a semantic delta to a document. With a serialization
// collaborator installed the document's triple projection is edited and
// reserialized; without one, changes are applied directly to the root
// subject, which covers rdf:type and flat properties only. Either way the
// result then receives the delta's context changes. Semantic patching is
// lossy by nature; it does not round-trip arbitrary documents.
func Patch(doc any, delta *Delta, opts ...Option) (any, error) {
	o := buildOptions(opts)
	if err := document.Validate(doc); err != nil {
		return nil, reconcile.Errorf(reconcile.CodePatchFailed, "semantic.Patch", "document: %v", err)
	}
	if delta.IsEmpty() {
		return document.Clone(doc), nil
	}

	local := func() (any, error) { return patchLocal(doc, delta, o) }
	var native func() (any, error)
	if o.Accelerator != nil {
		native = func() (any, error) { return o.Accelerator.Patch(doc, delta) }
	}
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"semantic.Patch", native, local, document.Equal)
}

func patchLocal(doc any, delta *Delta, o Options) (any, error) {
	if o.Serializer != nil {
		out, err := patchViaSerializer(doc, delta, o)
		if err != nil {
			return nil, reconcile.Errorf(reconcile.CodePatchFailed, "semantic.Patch", "serializer: %v", err)
		}
		return applyContextChanges(out, delta.ContextChanges), nil
	}

	out := document.Clone(doc)
	out = applyTripleAdditions(out, delta.AddedTriples)
	out = applyTripleRemovals(out, delta.RemovedTriples)
	return applyContextChanges(out, delta.ContextChanges), nil
}

// patchViaSerializer edits the document's triple projection and rebuilds a
// document from the result.
func patchViaSerializer(doc any, delta *Delta, o Options) (any, error) {
	current, err := projectTriples(doc, o)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(delta.RemovedTriples))
	for _, t := range delta.RemovedTriples {
		drop[t.key()] = true
	}
	present := make(map[string]bool, len(current))
	next := current[:0:0]
	for _, t := range current {
		k := t.key()
		present[k] = true
		if !drop[k] {
			next = append(next, t)
		}
	}
	for _, t := range delta.AddedTriples {
		if !present[t.key()] {
			next = append(next, t)
		}
	}
	return o.Serializer.FromTriples(next)
}

// applyTripleAdditions folds added triples whose subject is the document's
// root @id back into the document: rdf:type merges into @type, other
// predicates upsert under their local name.
func applyTripleAdditions(doc any, added []Triple) any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	rootID, _ := obj["@id"].(string)
	for _, t := range added {
		if t.Subject != rootID || rootID == "" {
			continue
		}
		if t.Predicate == rdfTypeIRI {
			if ts, ok := objectTypeLocal(t.Object); ok {
				mergeType(obj, ts)
			}
			continue
		}
		key := iriLocalName(t.Predicate)
		newVal := objectValue(t.Object)
		current, exists := obj[key]
		if arr, ok := current.([]any); ok {
			if !containsValue(arr, newVal) {
				obj[key] = append(arr, newVal)
			}
		} else if !exists {
			obj[key] = newVal
		} else if !document.Equal(current, newVal) {
			obj[key] = []any{current, newVal}
		}
	}
	return obj
}

// applyTripleRemovals drops removed root-subject triples from the document.
func applyTripleRemovals(doc any, removed []Triple) any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	rootID, _ := obj["@id"].(string)
	for _, t := range removed {
		if t.Subject != rootID || rootID == "" {
			continue
		}
		if t.Predicate == rdfTypeIRI {
			if ts, ok := objectTypeLocal(t.Object); ok {
				removeType(obj, ts)
			}
			continue
		}
		key := iriLocalName(t.Predicate)
		remVal := objectValue(t.Object)
		switch current := obj[key].(type) {
		case []any:
			kept := current[:0:0]
			for _, v := range current {
				if !document.Equal(v, remVal) {
					kept = append(kept, v)
				}
			}
			switch len(kept) {
			case 0:
				delete(obj, key)
			case 1:
				obj[key] = kept[0]
			default:
				obj[key] = kept
			}
		default:
			if document.Equal(current, remVal) {
				delete(obj, key)
			}
		}
	}
	return obj
}

func mergeType(obj map[string]any, ts string) {
	switch current := obj["@type"].(type) {
	case string:
		if current != ts {
			obj["@type"] = []any{current, ts}
		}
	case []any:
		for _, v := range current {
			if s, ok := v.(string); ok && s == ts {
				return
			}
		}
		obj["@type"] = append(current, ts)
	default:
		obj["@type"] = ts
	}
}

func removeType(obj map[string]any, ts string) {
	switch current := obj["@type"].(type) {
	case string:
		if current == ts {
			delete(obj, "@type")
		}
	case []any:
		kept := current[:0:0]
		for _, v := range current {
			if s, ok := v.(string); !ok || s != ts {
				kept = append(kept, v)
			}
		}
		switch len(kept) {
		case 0:
			delete(obj, "@type")
		case 1:
			obj["@type"] = kept[0]
		default:
			obj["@type"] = kept
		}
	}
}

// objectValue converts a triple object back to a document value, coercing
// the basic XSD datatypes to JSON scalars.
func objectValue(o Object) any {
	if o.Literal == nil {
		return o.Term
	}
	lit := o.Literal
	switch lit.Datatype {
	case xsdInteger:
		if n, err := strconv.ParseInt(lit.Value, 10, 64); err == nil {
			return float64(n)
		}
	case xsdDouble:
		if f, err := strconv.ParseFloat(lit.Value, 64); err == nil {
			return f
		}
	case xsdBoolean:
		if lit.Value == "true" {
			return true
		}
		if lit.Value == "false" {
			return false
		}
	}
	return lit.Value
}

// objectTypeLocal extracts the local type name from an rdf:type object.
func objectTypeLocal(o Object) (string, bool) {
	if o.Literal != nil {
		return "", false
	}
	return iriLocalName(o.Term), true
}

// iriLocalName returns the fragment after the last slash or hash.
func iriLocalName(iri string) string {
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

func containsValue(arr []any, v any) bool {
	for _, el := range arr {
		if document.Equal(el, v) {
			return true
		}
	}
	return false
}
