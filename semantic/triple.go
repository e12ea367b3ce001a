// Package semantic implements the RDF-level diff engine. Documents are
// projected to triple sets, blank nodes are canonically relabeled, and the
// diff is a set difference over triples rather than a comparison of surface
// syntax, so two documents that spell the same graph differently compare
// equal.
package semantic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Well-known IRIs the extractor emits.
const (
	rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// Triple is one RDF statement. Subject and Predicate are IRIs or blank node
// references in "_:label" form.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    Object `json:"object"`
}

// Literal is a typed or language-tagged literal value. Exactly one of
// Datatype and Language is set.
type Literal struct {
	Value    string
	Datatype string
	Language string
}

// Object is a triple object: either a term (IRI or blank node reference) or
// a literal.
type Object struct {
	Term    string
	Literal *Literal
}

// IRI builds a term object.
func IRI(term string) Object { return Object{Term: term} }

// StringLiteral builds an xsd:string literal object.
func StringLiteral(value string) Object {
	return Object{Literal: &Literal{Value: value, Datatype: xsdString}}
}

// TypedLiteral builds a literal object with an explicit datatype IRI.
func TypedLiteral(value, datatype string) Object {
	return Object{Literal: &Literal{Value: value, Datatype: datatype}}
}

// LangLiteral builds a language-tagged literal object.
func LangLiteral(value, language string) Object {
	return Object{Literal: &Literal{Value: value, Language: language}}
}

// IsLiteral reports whether the object is a literal.
func (o Object) IsLiteral() bool { return o.Literal != nil }

// IsBlank reports whether the object is a blank node reference.
func (o Object) IsBlank() bool { return strings.HasPrefix(o.Term, "_:") }

// Equal reports value equality between objects.
func (o Object) Equal(other Object) bool { return o.key() == other.key() }

func (o Object) key() string {
	if o.Literal == nil {
		return "t\x00" + o.Term
	}
	return "l\x00" + o.Literal.Value + "\x00" + o.Literal.Datatype + "\x00" + o.Literal.Language
}

// literalWire is the object wire form for literals.
type literalWire struct {
	Value    string `json:"value"`
	Datatype string `json:"type,omitempty"`
	Language string `json:"language,omitempty"`
}

// MarshalJSON renders a term as a bare string and a literal as an object
// with a value plus either a type IRI or a language tag.
func (o Object) MarshalJSON() ([]byte, error) {
	if o.Literal == nil {
		return json.Marshal(o.Term)
	}
	return json.Marshal(literalWire{
		Value:    o.Literal.Value,
		Datatype: o.Literal.Datatype,
		Language: o.Literal.Language,
	})
}

// UnmarshalJSON parses either wire form.
func (o *Object) UnmarshalJSON(data []byte) error {
	var term string
	if err := json.Unmarshal(data, &term); err == nil {
		*o = Object{Term: term}
		return nil
	}
	var w literalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("object is neither a term nor a literal: %w", err)
	}
	if w.Datatype != "" && w.Language != "" {
		return fmt.Errorf("literal carries both a datatype and a language")
	}
	*o = Object{Literal: &Literal{Value: w.Value, Datatype: w.Datatype, Language: w.Language}}
	return nil
}

// Line renders the triple in an N-Quads-like form, used for canonical
// ordering and diagnostics.
func (t Triple) Line() string {
	var b strings.Builder
	writeTerm(&b, t.Subject)
	b.WriteByte(' ')
	writeTerm(&b, t.Predicate)
	b.WriteByte(' ')
	if lit := t.Object.Literal; lit != nil {
		fmt.Fprintf(&b, "%q", lit.Value)
		if lit.Language != "" {
			b.WriteByte('@')
			b.WriteString(lit.Language)
		} else if lit.Datatype != "" && lit.Datatype != xsdString {
			b.WriteString("^^")
			writeTerm(&b, lit.Datatype)
		}
	} else {
		writeTerm(&b, t.Object.Term)
	}
	b.WriteString(" .")
	return b.String()
}

func writeTerm(b *strings.Builder, term string) {
	if strings.HasPrefix(term, "_:") {
		b.WriteString(term)
		return
	}
	b.WriteByte('<')
	b.WriteString(term)
	b.WriteByte('>')
}

func (t Triple) key() string {
	return t.Subject + "\x00" + t.Predicate + "\x00" + t.Object.key()
}
