// Package validator is the entry point for checking a serialized analysis.
//
// Validate decodes the input, builds a graph, runs every structural check
// and, only when the graph is structurally sound, runs the privacy
// accountant. The outcome is a Verdict: accepted when no diagnostics were
// produced, rejected otherwise.
//
// A Validator holds no per-call state. One instance may serve any number of
// concurrent callers.
package validator
