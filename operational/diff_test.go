package operational

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/document"
)

func testOpts() []Option {
	return []Option{WithActorID("actor_test"), WithTimestamp(1000)}
}

func TestDiffEqualDocumentsEmitsNothing(t *testing.T) {
	doc := map[string]any{"a": []any{float64(1), float64(2)}}
	cs, err := Diff(doc, doc, testOpts()...)
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, [2]int64{1000, 1000}, cs.Metadata.TimestampRange)
}

func TestDiffObjectEmission(t *testing.T) {
	old := map[string]any{"name": "John", "age": float64(30), "gone": "x"}
	new := map[string]any{"name": "Jane", "age": float64(30), "city": "NYC"}

	cs, err := Diff(old, new, testOpts()...)
	require.NoError(t, err)
	require.Len(t, cs.Operations, 3)

	// Keys are visited in sorted order, so the stream is deterministic.
	assert.Equal(t, TypeSet, cs.Operations[0].Type)
	assert.Equal(t, "/city", cs.Operations[0].Path.String())
	assert.Equal(t, "NYC", cs.Operations[0].Value)
	assert.Equal(t, int64(1000), cs.Operations[0].Timestamp)

	assert.Equal(t, TypeDelete, cs.Operations[1].Type)
	assert.Equal(t, "/gone", cs.Operations[1].Path.String())
	assert.Equal(t, int64(1001), cs.Operations[1].Timestamp)

	assert.Equal(t, TypeSet, cs.Operations[2].Type)
	assert.Equal(t, "/name", cs.Operations[2].Path.String())
	assert.Equal(t, "Jane", cs.Operations[2].Value)
	assert.Equal(t, int64(1002), cs.Operations[2].Timestamp)

	assert.Equal(t, []string{"actor_test"}, cs.Metadata.Actors)
	assert.Equal(t, [2]int64{1000, 1002}, cs.Metadata.TimestampRange)
	assert.Equal(t, LastWriteWins, cs.Metadata.ConflictResolution)
}

func TestDiffArrayMoveEmission(t *testing.T) {
	old := map[string]any{"items": []any{"a", "b", "c"}}
	new := map[string]any{"items": []any{"b", "a", "c"}}

	cs, err := Diff(old, new, testOpts()...)
	require.NoError(t, err)
	require.Len(t, cs.Operations, 1)

	op := cs.Operations[0]
	assert.Equal(t, TypeMove, op.Type)
	assert.Equal(t, "/items/0", op.Path.String())
	assert.Equal(t, 1, op.From)

	got, err := Patch(old, cs)
	require.NoError(t, err)
	assert.True(t, document.Equal(new, got))
}

func TestDiffGeneratesActorID(t *testing.T) {
	cs, err := Diff(map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)})
	require.NoError(t, err)
	require.Len(t, cs.Metadata.Actors, 1)
	actor := cs.Metadata.Actors[0]
	assert.True(t, strings.HasPrefix(actor, "actor_"), "actor id %q", actor)
	assert.Len(t, actor, len("actor_")+32)
	assert.Equal(t, actor, cs.Operations[0].ActorID)
}

func TestDiffRejectsInvalidDocument(t *testing.T) {
	_, err := Diff(map[string]any{"ch": make(chan int)}, nil, testOpts()...)
	require.Error(t, err)
	assert.True(t, reconcile.IsDiffFailed(err))
}

func TestDiffPatchRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		old  any
		new  any
	}{
		{
			name: "scalar root",
			old:  "a",
			new:  "b",
		},
		{
			name: "object edits",
			old:  map[string]any{"name": "John", "age": float64(30)},
			new:  map[string]any{"name": "Jane", "age": float64(30), "city": "NYC"},
		},
		{
			name: "array move",
			old:  map[string]any{"items": []any{"a", "b", "c"}},
			new:  map[string]any{"items": []any{"b", "a", "c"}},
		},
		{
			name: "array shuffle with edits",
			old:  []any{"a", "b", "c", "d", "e"},
			new:  []any{"e", "a", "x", "c"},
		},
		{
			name: "crossing move",
			old:  []any{"a", "x", "b"},
			new:  []any{"b", "y", "a"},
		},
		{
			name: "nested containers",
			old: map[string]any{
				"meta": map[string]any{"rev": float64(1)},
				"rows": []any{
					map[string]any{"id": float64(1), "v": "x"},
					map[string]any{"id": float64(2), "v": "y"},
				},
			},
			new: map[string]any{
				"meta": map[string]any{"rev": float64(2)},
				"rows": []any{
					map[string]any{"id": float64(2), "v": "y2"},
				},
			},
		},
		{
			name: "type change",
			old:  map[string]any{"v": []any{float64(1)}},
			new:  map[string]any{"v": map[string]any{"a": float64(1)}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs, err := Diff(tc.old, tc.new, testOpts()...)
			require.NoError(t, err)

			got, err := Patch(tc.old, cs)
			require.NoError(t, err)
			assert.True(t, document.Equal(tc.new, got), "patched: %#v", got)
		})
	}
}

func TestDiffDeterministicStream(t *testing.T) {
	old := map[string]any{"b": float64(1), "a": []any{"x", "y"}, "c": "s"}
	new := map[string]any{"a": []any{"y", "z"}, "c": "t", "d": true}

	first, err := Diff(old, new, testOpts()...)
	require.NoError(t, err)
	second, err := Diff(old, new, testOpts()...)
	require.NoError(t, err)
	assert.True(t, changesetsEqual(first, second))
}

func TestClock(t *testing.T) {
	c := NewClockAt(5)
	assert.Equal(t, int64(5), c.Current())
	assert.Equal(t, int64(5), c.Next())
	assert.Equal(t, int64(6), c.Next())
	assert.Equal(t, int64(7), c.Current())
}

func TestDiffTimestampRangeBracketsOperations(t *testing.T) {
	old := map[string]any{"a": float64(1), "b": float64(2)}
	new := map[string]any{"a": float64(9), "b": float64(8)}

	cs, err := Diff(old, new, WithActorID("actor_test"), WithTimestamp(100))
	require.NoError(t, err)
	require.Len(t, cs.Operations, 2)
	assert.Equal(t, int64(100), cs.Operations[0].Timestamp)
	assert.Equal(t, int64(101), cs.Operations[1].Timestamp)
	assert.Equal(t, [2]int64{100, 101}, cs.Metadata.TimestampRange)

	// Merge recomputes the range from the operations; the two must agree.
	merged, err := Merge([]*Changeset{cs})
	require.NoError(t, err)
	assert.Equal(t, cs.Metadata.TimestampRange, merged.Metadata.TimestampRange)
}
