package operational

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedoc/reconcile/document"
)

func TestOperationWireRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		op   Operation
	}{
		{"set", Operation{Type: TypeSet, Path: document.Path{}.Child("title"), Value: "v", Timestamp: 7, ActorID: "actor_test"}},
		{"delete", Operation{Type: TypeDelete, Path: document.Path{}.Child("a").At(2), Timestamp: 8, ActorID: "actor_test"}},
		{"insert", Operation{Type: TypeInsert, Path: document.Path{}.Child("items").At(0), Value: map[string]any{"k": float64(1)}, Timestamp: 9, ActorID: "actor_test"}},
		{"move", Operation{Type: TypeMove, Path: document.Path{}.Child("items").At(0), From: 3, Timestamp: 10, ActorID: "actor_test"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.op)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			if tc.op.Type == TypeMove {
				assert.Contains(t, fields, "from")
			} else {
				assert.NotContains(t, fields, "from")
			}
			assert.Contains(t, fields, "value")

			var got Operation
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tc.op.Type, got.Type)
			assert.True(t, tc.op.Path.Equal(got.Path))
			assert.True(t, document.Equal(tc.op.Value, got.Value))
			assert.Equal(t, tc.op.From, got.From)
			assert.Equal(t, tc.op.Timestamp, got.Timestamp)
			assert.Equal(t, tc.op.ActorID, got.ActorID)
		})
	}
}

func TestOperationWireRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"type":"swap","path":["a"],"value":null,"timestamp":1,"actor_id":"actor_x"}`},
		{"missing type", `{"path":["a"],"value":null,"timestamp":1,"actor_id":"actor_x"}`},
		{"move without from", `{"type":"move","path":["items",0],"value":null,"timestamp":1,"actor_id":"actor_x"}`},
		{"fractional path index", `{"type":"set","path":["items",1.5],"value":0,"timestamp":1,"actor_id":"actor_x"}`},
		{"boolean path token", `{"type":"set","path":[true],"value":0,"timestamp":1,"actor_id":"actor_x"}`},
		{"not an object", `[1,2]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var op Operation
			assert.Error(t, json.Unmarshal([]byte(tc.raw), &op))
		})
	}
}

func TestChangesetWireRoundTrip(t *testing.T) {
	cs, err := Diff(
		map[string]any{"items": []any{"a", "b"}, "title": "draft"},
		map[string]any{"items": []any{"b", "a"}, "title": "final"},
		testOpts()...,
	)
	require.NoError(t, err)

	data, err := json.Marshal(cs)
	require.NoError(t, err)

	var got Changeset
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Operations, len(cs.Operations))
	assert.Equal(t, cs.Metadata, got.Metadata)

	applied, err := Patch(map[string]any{"items": []any{"a", "b"}, "title": "draft"}, &got)
	require.NoError(t, err)
	assert.True(t, document.Equal(map[string]any{"items": []any{"b", "a"}, "title": "final"}, applied))
}

func TestChangesetGolden(t *testing.T) {
	cs, err := Diff(
		map[string]any{"items": []any{"a", "b"}},
		map[string]any{"items": []any{"b", "a"}},
		testOpts()...,
	)
	require.NoError(t, err)

	data, err := json.Marshal(cs)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "move_changeset", data)
}
