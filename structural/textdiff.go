package structural

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// textDiffThreshold is the minimum old-string length, in code points, for a
// text delta to be considered.
const textDiffThreshold = 60

// textSimilarityFloor is the minimum similarity (1 - levenshtein/maxLen)
// below which a plain change is emitted instead of a text delta.
const textSimilarityFloor = 0.5

// textDelta computes a character-level delta for two strings, or nil when
// the old string is too short or the strings are too dissimilar to make an
// edit script worthwhile.
func textDelta(old, new string) *TextDelta {
	oldRunes := []rune(old)
	if len(oldRunes) <= textDiffThreshold {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)

	maxLen := len(oldRunes)
	if n := len([]rune(new)); n > maxLen {
		maxLen = n
	}
	if maxLen > 0 {
		similarity := 1 - float64(dmp.DiffLevenshtein(diffs))/float64(maxLen)
		if similarity < textSimilarityFloor {
			return nil
		}
	}

	ops := opsFromDiffs(diffs)
	if len(ops) == 0 {
		return nil
	}
	return &TextDelta{Ops: ops}
}

// opsFromDiffs converts diff-match-patch runs into ranged ops. A deletion
// immediately followed by an insertion folds into a replace, mirroring the
// Myers op stream the wire format was built around.
func opsFromDiffs(diffs []diffmatchpatch.Diff) []TextOp {
	var ops []TextOp
	oldPos, newPos := 0, 0

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				ins := diffs[i+1]
				insLen := len([]rune(ins.Text))
				ops = append(ops, TextOp{
					Op:       "replace",
					OldRange: []int{oldPos, oldPos + n},
					NewRange: []int{newPos, newPos + insLen},
					OldText:  d.Text,
					NewText:  ins.Text,
				})
				oldPos += n
				newPos += insLen
				i++
				continue
			}
			ops = append(ops, TextOp{
				Op:    "delete",
				Range: []int{oldPos, oldPos + n},
				Text:  d.Text,
			})
			oldPos += n
		case diffmatchpatch.DiffInsert:
			ops = append(ops, TextOp{
				Op:    "insert",
				Range: []int{newPos, newPos + n},
				Text:  d.Text,
			})
			newPos += n
		}
	}
	return ops
}

// applyTextOps replays an edit script against old. Delete and replace ops
// carry old-string rune ranges; insert ranges are in new-string
// coordinates, so the old anchor is recovered from the cumulative length
// shift of the ops applied so far.
func applyTextOps(old string, ops []TextOp) string {
	runes := []rune(old)
	var b strings.Builder
	pos := 0
	shift := 0 // new-coordinate offset relative to old

	for _, op := range ops {
		switch op.Op {
		case "delete":
			if len(op.Range) == 2 {
				b.WriteString(sliceRunes(runes, pos, op.Range[0]))
				pos = op.Range[1]
				shift -= op.Range[1] - op.Range[0]
			}
		case "replace":
			if len(op.OldRange) == 2 {
				b.WriteString(sliceRunes(runes, pos, op.OldRange[0]))
				b.WriteString(op.NewText)
				pos = op.OldRange[1]
				shift += len([]rune(op.NewText)) - (op.OldRange[1] - op.OldRange[0])
			}
		case "insert":
			if len(op.Range) == 2 {
				anchor := op.Range[0] - shift
				b.WriteString(sliceRunes(runes, pos, anchor))
				if anchor > pos {
					pos = anchor
				}
				shift += op.Range[1] - op.Range[0]
			}
			b.WriteString(op.Text)
		}
	}
	b.WriteString(sliceRunes(runes, pos, len(runes)))
	return b.String()
}

func sliceRunes(runes []rune, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
