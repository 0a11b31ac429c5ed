// Package errors provides structured diagnostic types for loopviz.
//
// Diagnostics are categorized by Phase (where they were raised) and Kind
// (category). The trace engine itself is fail-silent; these values form a
// separate, additive lint channel and never change what the engine produces.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseTrace, errors.KindRecursionLimit).
//		Line(12).
//		Function("loop").
//		Detail("call depth limit %d reached", 64).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownCall("missing", 3)
//	err := errors.UnbalancedBlock("f", 0, 1)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
