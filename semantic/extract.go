package semantic

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/treedoc/reconcile/internal/canonjson"
)

// ExtractTriples projects a document to triples with the built-in
// extractor and canonically relabels its blank nodes. This is the degraded
// fallback used when no serialization collaborator is installed; it covers
// the common expanded-document shapes, not the full RDF mapping.
func ExtractTriples(doc any) []Triple {
	e := extractor{labels: make(map[string]string)}
	e.walk(doc, "")
	return normalizeBlankNodes(e.triples, BlankNodesHash)
}

// extractor walks an (expanded) document tree emitting triples. Blank node
// labels are content fingerprints so an identical node always gets the same
// label within and across calls.
type extractor struct {
	labels  map[string]string
	triples []Triple
}

// walk emits the triples for node and returns its subject, or "" when the
// node contributes none.
func (e *extractor) walk(node any, subjectHint string) string {
	switch t := node.(type) {
	case map[string]any:
		return e.walkNode(t)
	case []any:
		last := subjectHint
		for _, item := range t {
			last = e.walk(item, subjectHint)
		}
		return last
	default:
		return subjectHint
	}
}

func (e *extractor) walkNode(obj map[string]any) string {
	subject := e.subjectFor(obj)

	if declared, ok := obj["@type"]; ok {
		switch t := declared.(type) {
		case []any:
			for _, ty := range t {
				if s, ok := ty.(string); ok {
					e.emit(subject, rdfTypeIRI, IRI(expandPropertyIRI(s)))
				}
			}
		case string:
			e.emit(subject, rdfTypeIRI, IRI(expandPropertyIRI(t)))
		}
	}

	for _, k := range sortedKeys(obj) {
		if strings.HasPrefix(k, "@") {
			continue
		}
		pred := expandPropertyIRI(k)
		switch v := obj[k].(type) {
		case []any:
			for _, item := range v {
				e.emitValue(subject, pred, item)
			}
		default:
			e.emitValue(subject, pred, v)
		}
	}
	return subject
}

func (e *extractor) subjectFor(obj map[string]any) string {
	if id, ok := obj["@id"].(string); ok {
		return id
	}
	enc, err := canonjson.Encode(obj)
	if err != nil {
		enc = "{}"
	}
	if label, ok := e.labels[enc]; ok {
		return label
	}
	sum := sha256.Sum256([]byte(enc))
	label := "_:b" + hex.EncodeToString(sum[:8])
	e.labels[enc] = label
	return label
}

func (e *extractor) emitValue(subject, pred string, value any) {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v["@id"].(string); ok {
			e.emit(subject, pred, IRI(id))
			return
		}
		if _, ok := v["@value"]; ok {
			e.emit(subject, pred, valueObject(v))
			return
		}
		nested := e.walkNode(v)
		e.emit(subject, pred, IRI(nested))
	case string:
		if isIRI(v) {
			e.emit(subject, pred, IRI(v))
		} else {
			e.emit(subject, pred, StringLiteral(v))
		}
	case float64:
		e.emit(subject, pred, numberLiteral(v))
	case float32:
		e.emit(subject, pred, numberLiteral(float64(v)))
	case bool:
		e.emit(subject, pred, TypedLiteral(strconv.FormatBool(v), xsdBoolean))
	case int:
		e.emit(subject, pred, numberLiteral(float64(v)))
	case int32:
		e.emit(subject, pred, numberLiteral(float64(v)))
	case int64:
		e.emit(subject, pred, numberLiteral(float64(v)))
	}
}

func (e *extractor) emit(subject, pred string, obj Object) {
	e.triples = append(e.triples, Triple{Subject: subject, Predicate: pred, Object: obj})
}

// valueObject converts an @value node to a literal.
func valueObject(v map[string]any) Object {
	val := literalText(v["@value"])
	if lang, ok := v["@language"].(string); ok {
		return LangLiteral(val, lang)
	}
	if dt, ok := v["@type"].(string); ok {
		return TypedLiteral(val, dt)
	}
	return StringLiteral(val)
}

func literalText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		enc, err := canonjson.Encode(t)
		if err != nil {
			return ""
		}
		return enc
	}
}

func numberLiteral(f float64) Object {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return TypedLiteral(strconv.FormatInt(int64(f), 10), xsdInteger)
	}
	return TypedLiteral(formatNumber(f), xsdDouble)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// expandPropertyIRI maps a document key to a predicate IRI: absolute IRIs
// pass through, known prefixes expand, bare names fall into the example
// vocabulary.
func expandPropertyIRI(property string) string {
	if isIRI(property) {
		return property
	}
	if prefix, rest, ok := strings.Cut(property, ":"); ok {
		switch prefix {
		case "schema":
			return "http://schema.org/" + rest
		case "rdf":
			return "http://www.w3.org/1999/02/22-rdf-syntax-ns#" + rest
		case "rdfs":
			return "http://www.w3.org/2000/01/rdf-schema#" + rest
		default:
			return property
		}
	}
	return "http://example.org/" + property
}

func isIRI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
