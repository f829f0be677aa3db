// Package accountant computes how much privacy budget a structurally valid
// analysis spends and compares it with the declared budget.
//
// # Protectors
//
// Every released node is protected by the closest mechanism on each of its
// dependency paths; a released mechanism protects itself. Mechanisms further
// upstream are shielded and do not count again. A mechanism that protects
// several released nodes is counted once.
//
// # Cost
//
// The base cost of a protector comes from its calibration parameters. It is
// amplified by the largest product of transform stability factors on any path
// from a datasource into the mechanism, and then by the group size of the
// privacy definition, both using the group privacy rule
//
//	epsilon' = k * epsilon
//	delta'   = k * exp((k - 1) * epsilon) * delta
//
// # Composition
//
// The ancestry of a protector is the set of dataset/column pairs it reads.
// Protectors whose ancestries overlap, directly or through other protectors,
// form one group and their costs add up. Distinct groups touch disjoint data
// and compose in parallel, so the total is the maximum over groups.
package accountant
