// Package solver is the solve-call boundary: it wires letter detection to
// swipe synthesis and guarantees a well-formed result for any input.
//
// Every call gets a request id that is attached to its log lines. Errors and
// panics never reach the caller; they surface as {"swipes": []}.
package solver
