package structural

// Merge combines deltas into one, last writer wins per top-level key.
// When two deltas both carry a nested object delta for the same key the
// merge recurses; any other collision keeps the later delta's descriptor
// wholesale.
func Merge(deltas ...Delta) Delta {
	out := Delta{}
	for _, d := range deltas {
		mergeInto(out, d)
	}
	return out
}

func mergeInto(dst, src Delta) {
	for k, ch := range src {
		if prev, ok := dst[k]; ok {
			pn, prevNested := prev.(Nested)
			cn, srcNested := ch.(Nested)
			if prevNested && srcNested && !pn.Delta.looksLikeArrayDelta() && !cn.Delta.looksLikeArrayDelta() {
				merged := Delta{}
				mergeInto(merged, pn.Delta)
				mergeInto(merged, cn.Delta)
				dst[k] = Nested{Delta: merged}
				continue
			}
		}
		dst[k] = ch
	}
}
