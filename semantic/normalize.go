package semantic

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// normalizeBlankNodes relabels blank nodes so two projections of the same
// graph carry identical labels. Each blank node is fingerprinted from the
// sorted statements it participates in, with blank references masked;
// fingerprints are sorted and labels assigned sequentially.
//
// This is a one-hop approximation, not graph isomorphism: blank nodes that
// differ only in deeper structure can still collide. Conformant
// canonicalization must go through an external provider.
func normalizeBlankNodes(triples []Triple, strategy BlankNodeStrategy) []Triple {
	if strategy == BlankNodesPreserve {
		return triples
	}

	entries := make(map[string][]string)
	for _, t := range triples {
		if strings.HasPrefix(t.Subject, "_:") {
			entries[t.Subject] = append(entries[t.Subject], "s\x00"+t.Predicate+"\x00"+maskBlank(t.Object))
		}
		if t.Object.IsBlank() {
			entries[t.Object.Term] = append(entries[t.Object.Term], "o\x00"+t.Predicate+"\x00"+maskSubject(t.Subject))
		}
	}
	if len(entries) == 0 {
		return triples
	}

	type labeled struct {
		label       string
		fingerprint string
	}
	nodes := make([]labeled, 0, len(entries))
	for label, parts := range entries {
		sort.Strings(parts)
		sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
		nodes = append(nodes, labeled{label: label, fingerprint: hex.EncodeToString(sum[:])})
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].fingerprint != nodes[j].fingerprint {
			return nodes[i].fingerprint < nodes[j].fingerprint
		}
		return nodes[i].label < nodes[j].label
	})

	mapping := make(map[string]string, len(nodes))
	for i, n := range nodes {
		mapping[n.label] = "_:c14n" + strconv.Itoa(i)
	}

	out := make([]Triple, len(triples))
	for i, t := range triples {
		if m, ok := mapping[t.Subject]; ok {
			t.Subject = m
		}
		if t.Object.Literal == nil {
			if m, ok := mapping[t.Object.Term]; ok {
				t.Object = IRI(m)
			}
		}
		out[i] = t
	}
	return out
}

func maskBlank(o Object) string {
	if o.IsBlank() {
		return "_:"
	}
	return o.key()
}

func maskSubject(s string) string {
	if strings.HasPrefix(s, "_:") {
		return "_:"
	}
	return s
}

