package trace

import (
	"slices"
	"time"
)

// Labels pushed by the timer and promise rules.
const (
	TimerOperation = "setTimeout"
	TimerCallback  = "setTimeout callback"
	PromiseLabel   = "Promise callback"
)

// TimerDuration is the fixed duration recorded for every timer registration,
// whatever delay the source passes.
const TimerDuration = 2000 * time.Millisecond

// WebAPICall records one registration with the host's async facilities.
type WebAPICall struct {
	Operation string        `yaml:"operation"`
	StartTime time.Time     `yaml:"start_time"`
	Duration  time.Duration `yaml:"duration"`
}

// DurationMs returns the duration in milliseconds.
func (c WebAPICall) DurationMs() int64 {
	return c.Duration.Milliseconds()
}

// Snapshot is the full simulated state at one step. Values held by a trace
// are never mutated; use Clone before handing one out.
type Snapshot struct {
	Stack          []string     `yaml:"stack"`
	TaskQueue      []string     `yaml:"task_queue"`
	MicroTaskQueue []string     `yaml:"microtask_queue"`
	WebAPI         []WebAPICall `yaml:"web_api"`
	CurrentLine    int          `yaml:"current_line"`
	Output         []string     `yaml:"output"`
}

// Empty returns the canonical empty snapshot. Every container is non-nil
// and empty.
func Empty() Snapshot {
	return Snapshot{
		Stack:          []string{},
		TaskQueue:      []string{},
		MicroTaskQueue: []string{},
		WebAPI:         []WebAPICall{},
		Output:         []string{},
	}
}

// Clone returns a deep copy whose containers share no memory with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Stack:          cloneSlice(s.Stack),
		TaskQueue:      cloneSlice(s.TaskQueue),
		MicroTaskQueue: cloneSlice(s.MicroTaskQueue),
		WebAPI:         cloneSlice(s.WebAPI),
		CurrentLine:    s.CurrentLine,
		Output:         cloneSlice(s.Output),
	}
}

// Equal compares every field except WebAPI start times, which are cosmetic.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.CurrentLine != o.CurrentLine {
		return false
	}
	if !slices.Equal(s.Stack, o.Stack) ||
		!slices.Equal(s.TaskQueue, o.TaskQueue) ||
		!slices.Equal(s.MicroTaskQueue, o.MicroTaskQueue) ||
		!slices.Equal(s.Output, o.Output) {
		return false
	}
	return slices.EqualFunc(s.WebAPI, o.WebAPI, func(a, b WebAPICall) bool {
		return a.Operation == b.Operation && a.Duration == b.Duration
	})
}

// Top returns the innermost frame label, or "" when the stack is empty.
func (s Snapshot) Top() string {
	if len(s.Stack) == 0 {
		return ""
	}
	return s.Stack[len(s.Stack)-1]
}

// cloneSlice never returns nil so empty containers stay distinguishable
// from absent ones when serialized.
func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
