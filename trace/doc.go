// Package trace builds the ordered snapshot log for a program.
//
// A trace is an append-only slice of Snapshot values. Each snapshot is a deep
// copy of its predecessor with one change applied: a frame pushed or popped,
// a line of output, a timer registration (WebAPI entry plus task) or a
// microtask. Traces record registration order only. Nothing is ever dequeued,
// run, or moved from a queue to the stack, and simulated time never advances.
//
// Timer registrations always record a 2000 ms duration regardless of the
// delay argument in the source.
//
// Recursion is bounded by WithMaxDepth (DefaultMaxDepth by default) and the
// total length by WithMaxSteps. Calls past the depth bound are skipped and
// reported as diagnostics; the rest of the trace is unaffected.
package trace
