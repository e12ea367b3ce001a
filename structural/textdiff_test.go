package structural

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedoc/reconcile/document"
)

const longSentence = "The quick brown fox jumps over the lazy dog while the cat sleeps on the warm windowsill."

func TestTextDeltaShortStringsIneligible(t *testing.T) {
	assert.Nil(t, textDelta("hello", "world"))
	assert.Nil(t, textDelta(strings.Repeat("a", 60), strings.Repeat("b", 60)))
}

func TestTextDeltaDissimilarStringsIneligible(t *testing.T) {
	old := strings.Repeat("a", 80)
	new := strings.Repeat("z", 80)
	assert.Nil(t, textDelta(old, new))
}

func TestDiffEmitsTextDelta(t *testing.T) {
	old := map[string]any{"body": longSentence}
	new := map[string]any{"body": strings.Replace(longSentence, "lazy dog", "sleepy wolf", 1)}

	d, err := Diff(old, new)
	require.NoError(t, err)
	td, ok := d["body"].(TextDelta)
	require.True(t, ok, "expected a text delta, got %#v", d["body"])
	assert.NotEmpty(t, td.Ops)

	got, err := Patch(old, d)
	require.NoError(t, err)
	assert.True(t, document.Equal(new, got))
}

func TestDiffTextDisabledEmitsChanged(t *testing.T) {
	old := map[string]any{"body": longSentence}
	new := map[string]any{"body": longSentence + " Then it rained."}

	d, err := Diff(old, new, WithTextDiff(false))
	require.NoError(t, err)
	_, ok := d["body"].(Changed)
	assert.True(t, ok, "expected a plain change, got %#v", d["body"])
}

func TestDiffTextRoundTripVariants(t *testing.T) {
	cases := []struct {
		name string
		old  string
		new  string
	}{
		{"replace middle", longSentence, strings.Replace(longSentence, "quick", "sluggish", 1)},
		{"append", longSentence, longSentence + " The end."},
		{"prepend", longSentence, "Once upon a time: " + longSentence},
		{"delete middle", longSentence, strings.Replace(longSentence, " while the cat sleeps", "", 1)},
		{"unicode", longSentence + " naïve café résumé", longSentence + " naïve cafés résumé"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := map[string]any{"s": tc.old}
			want := map[string]any{"s": tc.new}

			d, err := Diff(doc, want)
			require.NoError(t, err)
			got, err := Patch(doc, d)
			require.NoError(t, err)
			assert.True(t, document.Equal(want, got), "patched: %#v", got)

			inv, err := Inverse(d)
			require.NoError(t, err)
			back, err := Patch(got, inv)
			require.NoError(t, err)
			assert.True(t, document.Equal(doc, back), "reverted: %#v", back)
		})
	}
}

func TestApplyTextOps(t *testing.T) {
	cases := []struct {
		name string
		old  string
		ops  []TextOp
		want string
	}{
		{
			name: "delete tail",
			old:  "hello world",
			ops:  []TextOp{{Op: "delete", Range: []int{5, 11}, Text: " world"}},
			want: "hello",
		},
		{
			name: "insert keeps preceding text",
			old:  "AB",
			ops:  []TextOp{{Op: "insert", Range: []int{1, 2}, Text: "X"}},
			want: "AXB",
		},
		{
			name: "insert after delete uses shifted anchor",
			old:  "abcdef",
			ops: []TextOp{
				{Op: "delete", Range: []int{0, 2}, Text: "ab"},
				{Op: "insert", Range: []int{2, 4}, Text: "XY"},
			},
			want: "cdXYef",
		},
		{
			name: "replace",
			old:  "hello world",
			ops: []TextOp{{
				Op:       "replace",
				OldRange: []int{6, 11},
				NewRange: []int{6, 11},
				OldText:  "world",
				NewText:  "there",
			}},
			want: "hello there",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, applyTextOps(tc.old, tc.ops))
		})
	}
}

func TestPatchTextDeltaAgainstNonString(t *testing.T) {
	d := Delta{"n": TextDelta{Ops: []TextOp{{Op: "insert", Range: []int{0, 1}, Text: "x"}}}}
	_, err := Patch(map[string]any{"n": float64(1)}, d)
	require.Error(t, err)
	assert.False(t, Validate(map[string]any{"n": float64(1)}, d))
}
