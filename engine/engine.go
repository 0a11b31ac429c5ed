package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/loopviz/errors"
	"github.com/wippyai/loopviz/source"
	"github.com/wippyai/loopviz/trace"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	clock    func() time.Time
	maxDepth int
	maxSteps int
}

// WithClock sets the clock used for timer start times.
func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.clock = clock }
}

// WithMaxDepth bounds nested calls. n <= 0 removes the bound.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithMaxSteps bounds the trace length. n <= 0 removes the bound.
func WithMaxSteps(n int) Option {
	return func(c *config) { c.maxSteps = n }
}

// Engine replays a precomputed trace. The trace is built once in New and
// never changes; only the cursor moves.
//
// Engine is not safe for concurrent use.
type Engine struct {
	src    string
	table  *source.Table
	steps  []trace.Snapshot
	diags  []*errors.Error
	cursor int
}

// New extracts declarations from src and builds the full trace.
func New(src string, opts ...Option) *Engine {
	c := config{
		clock:    time.Now,
		maxDepth: trace.DefaultMaxDepth,
		maxSteps: trace.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&c)
	}

	table := source.Extract(src)
	res := trace.Build(table, source.Lines(src),
		trace.WithClock(c.clock),
		trace.WithMaxDepth(c.maxDepth),
		trace.WithMaxSteps(c.maxSteps),
	)

	diags := append(table.Diagnostics(), res.Diagnostics...)

	Logger().Debug("engine constructed",
		zap.Int("functions", table.Len()),
		zap.Int("steps", len(res.Steps)),
		zap.Int("diagnostics", len(diags)),
	)

	return &Engine{
		src:    src,
		table:  table,
		steps:  res.Steps,
		diags:  diags,
		cursor: -1,
	}
}

// Reset rewinds the cursor to before the first step.
func (e *Engine) Reset() {
	e.cursor = -1
}

// Next advances the cursor and returns the snapshot there. It returns false,
// leaving the cursor unchanged, when no steps remain.
func (e *Engine) Next() (trace.Snapshot, bool) {
	if e.cursor >= len(e.steps)-1 {
		return trace.Snapshot{}, false
	}
	e.cursor++
	return e.steps[e.cursor].Clone(), true
}

// Current returns the snapshot at the cursor, or the canonical empty
// snapshot before the first step.
func (e *Engine) Current() trace.Snapshot {
	if e.cursor < 0 {
		return trace.Empty()
	}
	return e.steps[e.cursor].Clone()
}

// Cursor returns the current position, -1 before the first step.
func (e *Engine) Cursor() int {
	return e.cursor
}

// Len returns the number of steps in the trace.
func (e *Engine) Len() int {
	return len(e.steps)
}

// Done reports whether Next would return false.
func (e *Engine) Done() bool {
	return e.cursor >= len(e.steps)-1
}

// Step returns a copy of the snapshot at index i without moving the cursor.
func (e *Engine) Step(i int) (trace.Snapshot, error) {
	if i < 0 || i >= len(e.steps) {
		return trace.Snapshot{}, errors.OutOfBounds(errors.PhaseReplay, i, len(e.steps))
	}
	return e.steps[i].Clone(), nil
}

// Steps returns a deep copy of the whole trace.
func (e *Engine) Steps() []trace.Snapshot {
	out := make([]trace.Snapshot, len(e.steps))
	for i, s := range e.steps {
		out[i] = s.Clone()
	}
	return out
}

// Functions returns the declared function names in declaration order.
func (e *Engine) Functions() []string {
	return e.table.Names()
}

// Function returns the record for a declared function.
func (e *Engine) Function(name string) (source.FunctionRecord, bool) {
	rec, ok := e.table.Lookup(name)
	if !ok {
		return source.FunctionRecord{}, false
	}
	out := *rec
	out.Body = append([]string(nil), rec.Body...)
	return out, true
}

// Diagnostics returns lint findings gathered during construction. They are
// informational and never affect the trace.
func (e *Engine) Diagnostics() []*errors.Error {
	out := make([]*errors.Error, len(e.diags))
	copy(out, e.diags)
	return out
}

// Source returns the text the engine was built from.
func (e *Engine) Source() string {
	return e.src
}
