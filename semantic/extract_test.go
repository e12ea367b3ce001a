package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPropertyIRI(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"http://example.org/x", "http://example.org/x"},
		{"https://example.org/x", "https://example.org/x"},
		{"schema:name", "http://schema.org/name"},
		{"rdf:type", "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		{"rdfs:label", "http://www.w3.org/2000/01/rdf-schema#label"},
		{"ex:custom", "ex:custom"},
		{"name", "http://example.org/name"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, expandPropertyIRI(tc.in), tc.in)
	}
}

func TestExtractTriplesFlatNode(t *testing.T) {
	doc := map[string]any{
		"@id":        "http://example.org/p",
		"@type":      "Person",
		"name":       "John",
		"age":        float64(30),
		"score":      1.5,
		"active":     true,
		"schema:url": "http://example.org/home",
		"@context":   map[string]any{"ignored": "http://x/"},
	}
	triples := ExtractTriples(doc)

	byPred := make(map[string]Object)
	for _, tr := range triples {
		require.Equal(t, "http://example.org/p", tr.Subject)
		byPred[tr.Predicate] = tr.Object
	}
	require.Len(t, triples, 6)

	assert.True(t, byPred[rdfTypeIRI].Equal(IRI("http://example.org/Person")))
	assert.True(t, byPred["http://example.org/name"].Equal(StringLiteral("John")))
	assert.True(t, byPred["http://example.org/age"].Equal(TypedLiteral("30", xsdInteger)))
	assert.True(t, byPred["http://example.org/score"].Equal(TypedLiteral("1.5", xsdDouble)))
	assert.True(t, byPred["http://example.org/active"].Equal(TypedLiteral("true", xsdBoolean)))
	assert.True(t, byPred["http://schema.org/url"].Equal(IRI("http://example.org/home")))
}

func TestExtractTriplesValueNodes(t *testing.T) {
	doc := map[string]any{
		"@id":      "http://example.org/p",
		"greeting": map[string]any{"@value": "bonjour", "@language": "fr"},
		"height":   map[string]any{"@value": "180", "@type": "http://example.org/cm"},
		"friend":   map[string]any{"@id": "http://example.org/q"},
	}
	triples := ExtractTriples(doc)

	byPred := make(map[string]Object)
	for _, tr := range triples {
		byPred[tr.Predicate] = tr.Object
	}
	require.Len(t, triples, 3)
	assert.True(t, byPred["http://example.org/greeting"].Equal(LangLiteral("bonjour", "fr")))
	assert.True(t, byPred["http://example.org/height"].Equal(TypedLiteral("180", "http://example.org/cm")))
	assert.True(t, byPred["http://example.org/friend"].Equal(IRI("http://example.org/q")))
}

func TestExtractTriplesNestedBlankNode(t *testing.T) {
	doc := map[string]any{
		"@id":    "http://example.org/p",
		"author": map[string]any{"name": "Alice"},
	}
	triples := ExtractTriples(doc)
	require.Len(t, triples, 2)

	var link, name *Triple
	for i := range triples {
		switch triples[i].Predicate {
		case "http://example.org/author":
			link = &triples[i]
		case "http://example.org/name":
			name = &triples[i]
		}
	}
	require.NotNil(t, link)
	require.NotNil(t, name)
	assert.True(t, link.Object.IsBlank())
	assert.Equal(t, link.Object.Term, name.Subject)
	assert.True(t, strings.HasPrefix(name.Subject, "_:c14n"))
	assert.True(t, name.Object.Equal(StringLiteral("Alice")))
}

func TestExtractTriplesDeterministicLabels(t *testing.T) {
	doc := map[string]any{
		"@id":    "http://example.org/p",
		"author": map[string]any{"name": "Alice"},
	}
	assert.Equal(t, ExtractTriples(doc), ExtractTriples(doc))
}

func TestExtractTriplesMultiValuedAndTopLevelArray(t *testing.T) {
	doc := []any{
		map[string]any{"@id": "http://example.org/a", "tag": []any{"x", "y"}},
		map[string]any{"@id": "http://example.org/b", "@type": []any{"Doc", "Note"}},
	}
	triples := ExtractTriples(doc)
	require.Len(t, triples, 4)

	var tags, types int
	for _, tr := range triples {
		switch {
		case tr.Subject == "http://example.org/a" && tr.Predicate == "http://example.org/tag":
			tags++
		case tr.Subject == "http://example.org/b" && tr.Predicate == rdfTypeIRI:
			types++
		}
	}
	assert.Equal(t, 2, tags)
	assert.Equal(t, 2, types)
}

func TestExtractTriplesSkipsNullValues(t *testing.T) {
	doc := map[string]any{"@id": "http://example.org/a", "gone": nil}
	assert.Empty(t, ExtractTriples(doc))
}

func TestExtractTriplesGoNumericKinds(t *testing.T) {
	doc := map[string]any{
		"@id":   "http://example.org/p",
		"age":   int32(30),
		"score": float32(1.5),
	}
	triples := ExtractTriples(doc)

	byPred := make(map[string]Object)
	for _, tr := range triples {
		byPred[tr.Predicate] = tr.Object
	}
	require.Len(t, triples, 2)
	assert.True(t, byPred["http://example.org/age"].Equal(TypedLiteral("30", xsdInteger)))
	assert.True(t, byPred["http://example.org/score"].Equal(TypedLiteral("1.5", xsdDouble)))
}
