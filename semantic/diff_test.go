package semantic

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedoc/reconcile"
)

func TestDiffIdenticalDocuments(t *testing.T) {
	doc := map[string]any{"@id": "http://example.org/p", "name": "John"}
	d, err := Diff(doc, doc)
	require.NoError(t, err)
	assert.Empty(t, d.AddedTriples)
	assert.Empty(t, d.RemovedTriples)
	assert.Empty(t, d.ModifiedNodes)
	assert.True(t, d.Metadata.SemanticEquivalence)
	assert.True(t, d.IsEmpty())
}

func TestDiffBlankNodeLabelsDoNotMatter(t *testing.T) {
	old := map[string]any{
		"@id":    "http://example.org/doc",
		"author": map[string]any{"@id": "_:a"},
	}
	new := map[string]any{
		"@id":    "http://example.org/doc",
		"author": map[string]any{"@id": "_:z"},
	}

	d, err := Diff(old, new)
	require.NoError(t, err)
	assert.Empty(t, d.AddedTriples)
	assert.Empty(t, d.RemovedTriples)
	assert.True(t, d.Metadata.SemanticEquivalence)

	eq, err := Equivalent(old, new)
	require.NoError(t, err)
	assert.True(t, eq)

	// Without normalization the labels are taken literally.
	eq, err = Equivalent(old, new, WithNormalize(false))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestDiffPairsChangedPropertyValues(t *testing.T) {
	old := map[string]any{"@id": "http://example.org/p", "name": "John", "age": float64(30)}
	new := map[string]any{"@id": "http://example.org/p", "name": "Jane", "age": float64(30)}

	d, err := Diff(old, new)
	require.NoError(t, err)
	require.Len(t, d.AddedTriples, 1)
	require.Len(t, d.RemovedTriples, 1)
	assert.False(t, d.Metadata.SemanticEquivalence)

	require.Len(t, d.ModifiedNodes, 1)
	nd := d.ModifiedNodes[0]
	assert.Equal(t, "http://example.org/p", nd.NodeID)
	assert.Empty(t, nd.AddedProperties)
	assert.Empty(t, nd.RemovedProperties)
	require.Len(t, nd.ModifiedProperties, 1)

	mod := nd.ModifiedProperties[0]
	assert.Equal(t, "http://example.org/name", mod.Property)
	assert.True(t, mod.OldValue.Equal(StringLiteral("John")))
	assert.True(t, mod.NewValue.Equal(StringLiteral("Jane")))
	assert.Equal(t, "value", mod.ChangeType)
}

func TestDiffGroupsAddsAndRemovesByNode(t *testing.T) {
	old := map[string]any{"@id": "http://example.org/p", "city": "NYC"}
	new := map[string]any{"@id": "http://example.org/p", "tag": "x"}

	d, err := Diff(old, new)
	require.NoError(t, err)
	require.Len(t, d.ModifiedNodes, 1)
	nd := d.ModifiedNodes[0]

	require.Len(t, nd.AddedProperties, 1)
	assert.Equal(t, "http://example.org/tag", nd.AddedProperties[0].Property)
	assert.Nil(t, nd.AddedProperties[0].OldValue)

	require.Len(t, nd.RemovedProperties, 1)
	assert.Equal(t, "http://example.org/city", nd.RemovedProperties[0].Property)
	assert.Nil(t, nd.RemovedProperties[0].NewValue)
}

func TestDiffContextChanges(t *testing.T) {
	old := map[string]any{
		"@context": map[string]any{
			"@base": "http://a/",
			"name":  "http://schema.org/name",
			"gone":  "http://x/",
		},
	}
	new := map[string]any{
		"@context": map[string]any{
			"@base": "http://b/",
			"name":  "http://schema.org/title",
			"fresh": "http://y/",
		},
	}

	d, err := Diff(old, new)
	require.NoError(t, err)
	cc := d.ContextChanges
	assert.Equal(t, map[string]string{"fresh": "http://y/"}, cc.AddedMappings)
	assert.Equal(t, map[string]string{"gone": "http://x/"}, cc.RemovedMappings)
	assert.Equal(t, [2]string{"http://schema.org/name", "http://schema.org/title"}, cc.ChangedMappings["name"])
	assert.Equal(t, [2]string{"http://a/", "http://b/"}, cc.ChangedMappings["@base"])
	assert.Equal(t, [2]any{"http://a/", "http://b/"}, cc.BaseChanges)
	assert.False(t, cc.IsEmpty())

	d, err = Diff(old, new, WithContextAware(false))
	require.NoError(t, err)
	assert.True(t, d.ContextChanges.IsEmpty())
}

func TestDiffRejectsInvalidDocument(t *testing.T) {
	_, err := Diff(map[string]any{"ch": make(chan int)}, map[string]any{})
	assert.True(t, reconcile.IsDiffFailed(err))
	_, err = Diff(map[string]any{}, map[string]any{"ch": make(chan int)})
	assert.True(t, reconcile.IsDiffFailed(err))
}

type fakeExpander struct {
	err error
}

func (f fakeExpander) Expand(doc any) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	obj, _ := doc.(map[string]any)
	out := map[string]any{}
	for k, v := range obj {
		if k == "@context" {
			continue
		}
		out[k] = v
	}
	out["expanded"] = true
	return out, nil
}

func TestDiffUsesExpander(t *testing.T) {
	doc := map[string]any{"@id": "http://example.org/p"}
	d, err := Diff(doc, doc, WithExpander(fakeExpander{}))
	require.NoError(t, err)
	assert.True(t, d.Metadata.SemanticEquivalence)

	// The projection sees the expanded form.
	triples, err := projectTriples(doc, buildOptions([]Option{WithExpander(fakeExpander{})}))
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "http://example.org/expanded", triples[0].Predicate)
}

func TestDiffExpanderFailureSurfaces(t *testing.T) {
	_, err := Diff(map[string]any{}, map[string]any{},
		WithExpander(fakeExpander{err: errors.New("no context")}))
	assert.True(t, reconcile.IsDiffFailed(err))
}

type failingSerializer struct{}

func (failingSerializer) ToTriples(any) ([]Triple, error) {
	return nil, errors.New("serializer down")
}

func (failingSerializer) FromTriples([]Triple) (any, error) {
	return nil, errors.New("serializer down")
}

func TestDiffFallsBackWhenSerializerFails(t *testing.T) {
	old := map[string]any{"@id": "http://example.org/p", "name": "John"}
	new := map[string]any{"@id": "http://example.org/p", "name": "Jane"}

	withSerializer, err := Diff(old, new, WithSerializer(failingSerializer{}))
	require.NoError(t, err)
	plain, err := Diff(old, new)
	require.NoError(t, err)
	assert.True(t, deltasEqual(withSerializer, plain))
}

func TestDeltaWireRoundTrip(t *testing.T) {
	old := map[string]any{"@id": "http://example.org/p", "@type": "Person", "name": "John"}
	new := map[string]any{"@id": "http://example.org/p", "@type": "Person", "name": "Jane", "age": float64(30)}

	d, err := Diff(old, new)
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	var got Delta
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, deltasEqual(d, &got))
}

func TestDeltaGolden(t *testing.T) {
	old := map[string]any{
		"@context": map[string]any{"name": "http://schema.org/name"},
		"@id":      "http://example.org/p",
		"@type":    "Person",
		"name":     "John",
	}
	new := map[string]any{
		"@context": map[string]any{"name": "http://schema.org/title"},
		"@id":      "http://example.org/p",
		"@type":    "Person",
		"name":     "Jane",
		"age":      float64(30),
	}

	d, err := Diff(old, new)
	require.NoError(t, err)
	data, err := json.Marshal(d)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "semantic_delta", data)
}

func TestDiffMetadataReportsNormalization(t *testing.T) {
	doc := map[string]any{"@id": "http://example.org/doc", "name": "John"}

	d, err := Diff(doc, doc)
	require.NoError(t, err)
	assert.Equal(t, "urdna2015", d.Metadata.NormalizationAlgorithm)

	d, err = Diff(doc, doc, WithNormalize(false))
	require.NoError(t, err)
	assert.Equal(t, "none", d.Metadata.NormalizationAlgorithm)

	d, err = Diff(doc, doc, WithBlankNodes(BlankNodesPreserve))
	require.NoError(t, err)
	assert.Equal(t, "none", d.Metadata.NormalizationAlgorithm)
	assert.Equal(t, "preserve", d.Metadata.BlankNodeHandling)
}
