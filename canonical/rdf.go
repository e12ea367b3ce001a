package canonical

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/treedoc/reconcile"
	"github.com/treedoc/reconcile/accel"
	"github.com/treedoc/reconcile/document"
	"github.com/treedoc/reconcile/semantic"
)

// RDF canonicalizes a document's graph form. A resolved provider is asked
// first; on absence or failure the document's own triple projection is
// sorted lexicographically and returned. The fallback is deterministic but
// deliberately not a conformant canonical RDF dataset normalization:
// treat its output as best-effort, suitable for change detection, not for
// interchange with conformant implementations.
func RDF(doc any, algorithm string, opts ...Option) (string, error) {
	o := buildOptions(opts)
	if err := document.Validate(doc); err != nil {
		return "", reconcile.Errorf(reconcile.CodeCanonicalizationFailed, "canonical.RDF", "document: %v", err)
	}

	local := func() (string, error) { return rdfLocal(doc, algorithm, o) }
	var native func() (string, error)
	if o.Accelerator != nil {
		native = func() (string, error) { return o.Accelerator.RDF(doc, algorithm) }
	}
	return accel.Call(accel.Policy{Logger: o.Logger, Verify: o.VerifyAccelerator},
		"canonical.RDF", native, local, func(a, b string) bool { return a == b })
}

func rdfLocal(doc any, algorithm string, o Options) (string, error) {
	provider, name := resolveProvider(o)

	key, cacheable := cacheKey(name, algorithm, doc)
	if cacheable && !o.SkipCache {
		if out, ok := rdfCache.Get(key); ok {
			return out, nil
		}
	}

	out, err := canonicalizeRDF(doc, algorithm, provider, name, o)
	if err != nil {
		return "", err
	}
	if cacheable && !o.SkipCache {
		rdfCache.Add(key, out)
	}
	return out, nil
}

func canonicalizeRDF(doc any, algorithm string, provider Provider, name string, o Options) (string, error) {
	if provider != nil {
		out, err := provider.Canonicalize(doc, algorithm)
		if err == nil {
			return out, nil
		}
		o.Logger.Debug("canonicalization provider failed, using fallback ordering",
			zap.String("provider", name), zap.Error(err))
	}
	return fallbackOrdering(doc), nil
}

// fallbackOrdering is the non-conformant path: project to triples, render
// each as a line, sort.
func fallbackOrdering(doc any) string {
	triples := semantic.ExtractTriples(doc)
	lines := make([]string, len(triples))
	for i, t := range triples {
		lines[i] = t.Line()
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
