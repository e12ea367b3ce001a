// Package canonical produces deterministic serializations and content
// hashes of documents. The stable_json form is purely structural; the
// urdna2015_nquads form routes through an external canonicalization
// provider when one is configured and otherwise falls back to a
// deterministic but non-conformant ordering of the document's own triple
// projection.
package canonical

import (
	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/document"
	"github.com/treedoc/reconcile/internal/canonjson"
)

// JSON renders the stable_json canonical form: object keys sorted
// bytewise, arrays in order, NFC-normalized strings, stable number
// formatting. Value-equal documents always produce identical output.
func JSON(doc any) (string, error) {
	if err := document.Validate(doc); err != nil {
		return "", reconcile.Errorf(reconcile.CodeCanonicalizationFailed, "canonical.JSON", "document: %v", err)
	}
	out, err := canonjson.Encode(doc)
	if err != nil {
		return "", reconcile.Errorf(reconcile.CodeCanonicalizationFailed, "canonical.JSON", "%v", err)
	}
	return out, nil
}
