// Package analysis defines the in-memory model of a differentially private
// release pipeline: a set of computation nodes connected by identifier
// references, plus the privacy budget the pipeline declares.
//
// Nodes are closed, self-describing records. A node never holds a pointer to
// another node; its in-edges are the identifiers listed in Inputs, which keeps
// the model free of reference cycles and lets a graph index nodes by
// identifier.
//
// The model is constructed once (by a decoder or a test builder) and is never
// mutated afterwards by the validation passes.
package analysis
