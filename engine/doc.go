// Package engine builds and replays event loop traces for small programs.
//
// An Engine is constructed from source text. Construction extracts function
// declarations, builds the complete trace, and sets the cursor to -1
// (before the first step). After that only the cursor moves:
//
//	e := engine.New(src)
//	for {
//	    s, ok := e.Next()
//	    if !ok {
//	        break // no more steps
//	    }
//	    render(s)
//	}
//	e.Reset()
//
// # Replay Contract
//
//	Reset()    cursor = -1, trace untouched
//	Next()     cursor+1 and its snapshot, or (zero, false) at the end
//	Current()  snapshot at cursor, trace.Empty() at -1
//
// Every snapshot handed out is a deep copy, so callers may mutate it freely.
//
// # Diagnostics
//
// The engine never fails. Unrecognized lines, unknown calls and unbalanced
// declarations are silently skipped. Diagnostics() reports them separately
// for lint-style consumers; it has no effect on the trace.
//
// # Recursion
//
// Self-recursive and mutually recursive declarations are cut off at
// WithMaxDepth frames (trace.DefaultMaxDepth by default). The skipped call
// produces no snapshot and a recursion_limit diagnostic.
//
// # Thread Safety
//
// Engine is NOT thread-safe and should be used by a single goroutine. Create
// a new Engine whenever the source changes.
package engine
