package trace

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/loopviz/classify"
	"github.com/wippyai/loopviz/errors"
	"github.com/wippyai/loopviz/source"
)

const (
	// DefaultMaxDepth bounds nested calls so self-recursive declarations
	// terminate.
	DefaultMaxDepth = 64
	// DefaultMaxSteps bounds the trace length; fan-out recursion can stay
	// under the depth bound and still grow exponentially.
	DefaultMaxSteps = 100_000
)

type options struct {
	clock    func() time.Time
	maxDepth int
	maxSteps int
}

// Option configures Build.
type Option func(*options)

// WithClock sets the source of WebAPI start times.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMaxDepth sets the call depth bound. n <= 0 removes the bound.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithMaxSteps sets the trace length bound. n <= 0 removes the bound.
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// Result is a fully built trace plus any diagnostics raised while building
// it. Diagnostics never change Steps.
type Result struct {
	Steps       []Snapshot
	Diagnostics []*errors.Error
}

type diagKey struct {
	kind errors.Kind
	line int
}

type builder struct {
	opts      options
	table     *source.Table
	steps     []Snapshot
	diags     []*errors.Error
	seen      map[diagKey]bool
	truncated bool
}

// Build walks lines top to bottom, descending into declared functions at
// their call sites, and returns the resulting snapshots.
//
// Lines inside a committed declaration are only visited through calls.
// Queues are only ever appended to; nothing is dequeued or run.
func Build(table *source.Table, lines []string, opts ...Option) *Result {
	o := options{
		clock:    time.Now,
		maxDepth: DefaultMaxDepth,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		opts:  o,
		table: table,
		seen:  make(map[diagKey]bool),
	}

	b.lintCalls(lines)

	for i, line := range lines {
		if b.truncated {
			break
		}
		if table.Covers(i) {
			continue
		}
		b.visit(i, line, 0)
	}

	Logger().Debug("trace built",
		zap.Int("lines", len(lines)),
		zap.Int("steps", len(b.steps)),
		zap.Int("diagnostics", len(b.diags)),
		zap.Bool("truncated", b.truncated),
	)

	return &Result{Steps: b.steps, Diagnostics: b.diags}
}

// lintCalls reports call sites naming undeclared functions. The rule table
// already ignores them.
func (b *builder) lintCalls(lines []string) {
	for i, line := range lines {
		if name, ok := classify.CallTarget(line); ok && !b.table.Has(name) {
			b.report(i, errors.UnknownCall(name, i))
		}
	}
}

func (b *builder) visit(line int, text string, depth int) {
	for _, e := range classify.Classify(text, b.table) {
		if b.truncated {
			return
		}
		switch e.Kind {
		case classify.EffectCall:
			b.call(e.Name, line, depth)
		case classify.EffectLog:
			b.emit(line, func(s *Snapshot) {
				s.Output = append(s.Output, e.Text)
			})
		case classify.EffectTimer:
			now := b.opts.clock()
			b.emit(line, func(s *Snapshot) {
				s.WebAPI = append(s.WebAPI, WebAPICall{
					Operation: TimerOperation,
					StartTime: now,
					Duration:  TimerDuration,
				})
				s.TaskQueue = append(s.TaskQueue, TimerCallback)
			})
		case classify.EffectMicrotask:
			b.emit(line, func(s *Snapshot) {
				s.MicroTaskQueue = append(s.MicroTaskQueue, PromiseLabel)
			})
		}
	}
}

func (b *builder) call(name string, line, depth int) {
	rec, ok := b.table.Lookup(name)
	if !ok {
		return
	}
	if b.opts.maxDepth > 0 && depth >= b.opts.maxDepth {
		if b.report(line, errors.RecursionLimit(name, line, b.opts.maxDepth)) {
			Logger().Warn("call depth limit reached",
				zap.String("function", name),
				zap.Int("line", line),
				zap.Int("limit", b.opts.maxDepth),
			)
		}
		return
	}

	frame := name + "()"
	b.emit(line, func(s *Snapshot) {
		s.Stack = append(s.Stack, frame)
	})
	for i, text := range rec.Body {
		if b.truncated {
			return
		}
		// statements sharing the header line follow its opening brace
		if i == 0 {
			text, _ = source.AfterHeader(text)
		}
		b.visit(rec.Start+i, text, depth+1)
	}
	b.emit(rec.End, func(s *Snapshot) {
		s.Stack = s.Stack[:len(s.Stack)-1]
	})
}

// emit appends a copy of the latest snapshot with apply's change and
// CurrentLine set to line.
func (b *builder) emit(line int, apply func(*Snapshot)) {
	if b.truncated {
		return
	}
	if b.opts.maxSteps > 0 && len(b.steps) >= b.opts.maxSteps {
		b.truncated = true
		b.report(line, errors.StepLimit(line, b.opts.maxSteps))
		Logger().Warn("trace truncated", zap.Int("limit", b.opts.maxSteps))
		return
	}

	prev := Empty()
	if n := len(b.steps); n > 0 {
		prev = b.steps[n-1]
	}
	next := prev.Clone()
	next.CurrentLine = line
	apply(&next)
	b.steps = append(b.steps, next)
}

// report records d once per kind and line.
func (b *builder) report(line int, d *errors.Error) bool {
	k := diagKey{kind: d.Kind, line: line}
	if b.seen[k] {
		return false
	}
	b.seen[k] = true
	b.diags = append(b.diags, d)
	return true
}
