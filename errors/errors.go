package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the diagnostic was raised
type Phase string

const (
	PhaseExtract  Phase = "extract"  // function declaration scanning
	PhaseClassify Phase = "classify" // per-line statement rules
	PhaseTrace    Phase = "trace"    // snapshot construction
	PhaseReplay   Phase = "replay"   // cursor operations
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseLoad     Phase = "load"     // source file loading
)

// Kind categorizes the diagnostic
type Kind string

const (
	KindUnbalancedBlock   Kind = "unbalanced_block"
	KindNestedDeclaration Kind = "nested_declaration"
	KindDuplicateFunction Kind = "duplicate_function"
	KindUnknownCall       Kind = "unknown_call"
	KindRecursionLimit    Kind = "recursion_limit"
	KindStepLimit         Kind = "step_limit"
	KindUnsupported       Kind = "unsupported"
	KindInvalidConfig     Kind = "invalid_config"
	KindNotFound          Kind = "not_found"
	KindOutOfBounds       Kind = "out_of_bounds"
)

// NoLine marks a diagnostic that is not tied to a source line.
const NoLine = -1

// Error is the structured diagnostic type used throughout loopviz
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Detail   string
	Path     []string
	Line     int // zero-based source line, NoLine when absent
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Line >= 0 {
		// one-based for humans, matches editor gutters
		fmt.Fprintf(&b, " at line %d", e.Line+1)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
		b.WriteString("()")
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Line:  NoLine,
		},
	}
}

// Line sets the zero-based source line
func (b *Builder) Line(line int) *Builder {
	b.err.Line = line
	return b
}

// Function sets the declared function the diagnostic refers to
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Path sets the config key path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// Convenience constructors for common diagnostics

// UnbalancedBlock reports a declaration whose braces never closed
func UnbalancedBlock(name string, start, depth int) *Error {
	return &Error{
		Phase:    PhaseExtract,
		Kind:     KindUnbalancedBlock,
		Line:     start,
		Function: name,
		Detail:   fmt.Sprintf("declaration never closed (depth %d at end of input)", depth),
		Value:    depth,
	}
}

// NestedDeclaration reports a capture discarded by a later header
func NestedDeclaration(discarded, restarted string, line int) *Error {
	return &Error{
		Phase:    PhaseExtract,
		Kind:     KindNestedDeclaration,
		Line:     line,
		Function: discarded,
		Detail:   fmt.Sprintf("capture restarted on %q, nested declarations are not supported", restarted),
	}
}

// DuplicateFunction reports a name declared more than once
func DuplicateFunction(name string, first, line int) *Error {
	return &Error{
		Phase:    PhaseExtract,
		Kind:     KindDuplicateFunction,
		Line:     line,
		Function: name,
		Detail:   fmt.Sprintf("replaces declaration at line %d", first+1),
	}
}

// UnknownCall reports a call site naming no declared function
func UnknownCall(name string, line int) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindUnknownCall,
		Line:     line,
		Function: name,
		Detail:   "no matching declaration, call ignored",
	}
}

// RecursionLimit reports a call skipped because the frame depth bound was hit
func RecursionLimit(name string, line, limit int) *Error {
	return &Error{
		Phase:    PhaseTrace,
		Kind:     KindRecursionLimit,
		Line:     line,
		Function: name,
		Detail:   fmt.Sprintf("call depth limit %d reached, call skipped", limit),
		Value:    limit,
	}
}

// StepLimit reports a trace truncated at the step budget
func StepLimit(line, limit int) *Error {
	return &Error{
		Phase:  PhaseTrace,
		Kind:   KindStepLimit,
		Line:   line,
		Detail: fmt.Sprintf("trace truncated at %d steps", limit),
		Value:  limit,
	}
}

// InvalidConfig creates a configuration validation error
func InvalidConfig(path []string, value any, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Line:   NoLine,
		Path:   path,
		Value:  value,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Line:   NoLine,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Line:   NoLine,
		Detail: detail,
		Cause:  cause,
	}
}

// List aggregates diagnostics, e.g. for a lint run
type List struct {
	Items []*Error
}

// NewList creates a list, returning nil when there is nothing to report
func NewList(items []*Error) *List {
	if len(items) == 0 {
		return nil
	}
	return &List{Items: items}
}

// Error implements the error interface
func (l *List) Error() string {
	if len(l.Items) == 0 {
		return "no diagnostics"
	}

	// Group by kind for readability
	byKind := make(map[Kind][]*Error)
	var kinds []Kind
	for _, e := range l.Items {
		if _, ok := byKind[e.Kind]; !ok {
			kinds = append(kinds, e.Kind)
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%d diagnostic(s)", len(l.Items))
	for _, k := range kinds {
		b.WriteString("\n  ")
		b.WriteString(string(k))
		b.WriteByte(':')
		for _, e := range byKind[k] {
			b.WriteString("\n    ")
			b.WriteString(e.Error())
		}
	}
	return b.String()
}

// Unwrap exposes the individual diagnostics to errors.Is/As
func (l *List) Unwrap() []error {
	out := make([]error, len(l.Items))
	for i, e := range l.Items {
		out[i] = e
	}
	return out
}
