package semantic

import (
	"github.com/treedoc/reconcile/document"
	"github.com/treedoc/reconcile/internal/canonjson"
)

// compareContexts diffs the flattened @context mappings of two documents.
// Non-string mapping values compare by their canonical encoding.
func compareContexts(old, new any) ContextDiff {
	oldCtx := extractContext(old)
	newCtx := extractContext(new)

	oldMap := flattenContext(oldCtx)
	newMap := flattenContext(newCtx)

	out := emptyContextDiff()
	for k, nv := range newMap {
		ov, ok := oldMap[k]
		switch {
		case !ok:
			out.AddedMappings[k] = nv
		case ov != nv:
			out.ChangedMappings[k] = [2]string{ov, nv}
		}
	}
	for k, ov := range oldMap {
		if _, ok := newMap[k]; !ok {
			out.RemovedMappings[k] = ov
		}
	}
	out.BaseChanges = [2]any{document.Clone(oldCtx["@base"]), document.Clone(newCtx["@base"])}
	return out
}

func extractContext(doc any) map[string]any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	ctx, ok := obj["@context"].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return ctx
}

func flattenContext(ctx map[string]any) map[string]string {
	out := make(map[string]string, len(ctx))
	for k, v := range ctx {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		enc, err := canonjson.Encode(v)
		if err != nil {
			continue
		}
		out[k] = enc
	}
	return out
}

// applyContextChanges rewrites a document's @context per the diff: added
// mappings insert, removed mappings drop, changed mappings take their new
// value.
func applyContextChanges(doc any, changes ContextDiff) any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	ctx, ok := obj["@context"].(map[string]any)
	if !ok {
		ctx = map[string]any{}
	} else {
		ctx = document.Clone(ctx).(map[string]any)
	}

	for k, v := range changes.AddedMappings {
		ctx[k] = v
	}
	for k := range changes.RemovedMappings {
		delete(ctx, k)
	}
	for k, pair := range changes.ChangedMappings {
		ctx[k] = pair[1]
	}

	if _, had := obj["@context"]; had || len(ctx) > 0 {
		obj["@context"] = ctx
	}
	return obj
}
