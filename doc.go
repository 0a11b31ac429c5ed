// Package loopviz simulates, step by step, how a single-threaded runtime
// with a call stack, a timer registry, a microtask queue and a task queue
// would schedule a small restricted program.
//
// The simulator statically scans source text and produces an immutable trace
// of snapshots that callers replay one at a time. It does not evaluate
// expressions or run callbacks; the trace shows registration order only.
//
// # Architecture Overview
//
//	loopviz/
//	├── source/      Function declaration extraction
//	├── classify/    Ordered per-line statement rules
//	├── trace/       Snapshot type and trace builder
//	├── engine/      Construction plus Next/Reset/Current replay
//	├── config/      YAML configuration
//	├── errors/      Structured diagnostics
//	└── cmd/loopviz  Terminal visualizer and trace dump
//
// # Quick Start
//
//	e := engine.New(`console.log('Hello');
//	setTimeout(() => {}, 0);`)
//
//	for {
//	    s, ok := e.Next()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(s.CurrentLine, s.Output, s.TaskQueue)
//	}
//
// # Recognized Statements
//
//	const name = () => { ... };   declaration
//	name();                       call of a declared function
//	console.log('literal');       output
//	setTimeout(...)               timer registration (always 2000ms)
//	Promise.resolve().then(...)   microtask registration
//
// Everything else is ignored without error.
package loopviz
