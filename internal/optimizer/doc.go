// Package optimizer picks foods that maximize protein under a kilocalorie
// budget.
//
// Filter bounds the candidate set. SelectGreedy is the O(n²) heuristic that
// always takes the highest-protein item still in play. SelectExhaustive walks
// every subset mask and is optimal, but it is exponential in the candidate
// count and refuses inputs of 64 or more items.
//
// All functions are pure. They never modify their input slices, and the
// returned slices never share a backing array with the input.
package optimizer
