// Package structural checks that an analysis graph is well formed before any
// privacy accounting happens.
//
// Validate runs four checks in a fixed order and reports every defect it
// finds rather than stopping at the first one:
//
//  1. references: every input names an existing node.
//  2. cycles: the dependency relation is acyclic.
//  3. shapes: every producer satisfies the shape its consumer expects.
//  4. releases: no released value is computed from private data without
//     passing through a mechanism.
//
// Each check tolerates the defects reported by earlier ones, so a graph with
// both a dangling reference and a cycle yields both diagnostics.
package structural
