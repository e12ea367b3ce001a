// Package reconcile compares and reconciles semi-structured documents under
// three change models and produces content-addressed canonical forms.
//
// The module is split into four engines that share a data model but give
// different consistency guarantees:
//
//   - structural: human-readable jsondiffpatch-style deltas
//   - operational: timestamped, actor-attributed CRDT operations that merge
//     without coordination
//   - semantic: comparison of the RDF meaning of linked-data documents,
//     independent of surface syntax
//   - canonical: deterministic encodings plus sha256 hashing and equality
//
// All engines are pure with respect to their inputs: documents are never
// mutated, every operation returns freshly built values, and concurrent
// calls need no locking. The only shared state is the bounded
// canonicalization cache in package canonical.
//
// Documents are the Go values produced by unmarshaling JSON:
// map[string]any, []any, string, float64, bool and nil. See package
// document for the exact contract.
//
// This package itself holds only the error taxonomy shared by the engines.
package reconcile
