// Package graph provides the immutable, validated view of an analysis that
// every checker works from.
//
// # Why Graph Package Exists
//
// An analysis arrives as a flat list of nodes whose edges are identifier
// references. Checkers need to walk those edges in both directions, look nodes
// up by identifier and iterate in a stable order. The Graph builds those
// indexes once so that the structural validator and the privacy accountant
// can stay simple, read-only passes.
//
// # Architecture
//
// Nodes live in a slice in insertion order (the arena). A map from identifier
// to arena position provides O(1) lookup, and a reverse index lists the
// dependents of every node. Edges are never materialised as pointers, so a
// graph can describe cycles and dangling references without ownership
// problems; detecting those is left to the structural validator.
//
// # Construction
//
// New rejects inputs that cannot be indexed at all: a nil analysis, a missing
// or invalid privacy definition, empty or duplicate identifiers and nodes that
// fail struct validation. Every such defect is reported as a MalformedAnalysis
// diagnostic, and all of them are collected in one pass.
//
// # Thread-Safety
//
// A Graph is never mutated after New returns and may be shared freely between
// goroutines.
package graph
