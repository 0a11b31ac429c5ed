package classify

import (
	"regexp"
	"strings"

	"github.com/wippyai/loopviz/source"
)

// EffectKind identifies what a fired rule contributes to the trace.
type EffectKind int

const (
	EffectCall EffectKind = iota
	EffectLog
	EffectTimer
	EffectMicrotask
)

func (k EffectKind) String() string {
	switch k {
	case EffectCall:
		return "call"
	case EffectLog:
		return "log"
	case EffectTimer:
		return "timer"
	case EffectMicrotask:
		return "microtask"
	}
	return "unknown"
}

// Effect is the outcome of one fired rule.
// Name is set for EffectCall, Text for EffectLog.
type Effect struct {
	Kind EffectKind
	Name string
	Text string
}

// Known reports whether a function name is declared.
type Known interface {
	Has(name string) bool
}

// Rule is one (predicate, effect) pair. Match receives the trimmed line.
type Rule struct {
	Name  string
	Match func(line string, known Known) (Effect, bool)
}

var (
	callPattern = regexp.MustCompile(`^(\w+)\(\);$`)
	logPattern  = regexp.MustCompile(`console\.log\((?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\)`)
)

// Markers for the textual timer and promise rules.
const (
	TimerMarker   = "setTimeout"
	PromiseMarker = "Promise.resolve"
)

// Rules is the fixed, ordered rule table. Rules are non-exclusive: every
// rule is evaluated against every line and each may fire.
var Rules = []Rule{
	{
		Name: "call",
		Match: func(line string, known Known) (Effect, bool) {
			name, ok := CallTarget(line)
			if !ok || known == nil || !known.Has(name) {
				return Effect{}, false
			}
			return Effect{Kind: EffectCall, Name: name}, true
		},
	},
	{
		Name: "console.log",
		Match: func(line string, _ Known) (Effect, bool) {
			text, ok := LogLiteral(line)
			if !ok {
				return Effect{}, false
			}
			return Effect{Kind: EffectLog, Text: text}, true
		},
	},
	{
		Name: "setTimeout",
		Match: func(line string, _ Known) (Effect, bool) {
			return Effect{Kind: EffectTimer}, strings.Contains(line, TimerMarker)
		},
	},
	{
		Name: "Promise.then",
		Match: func(line string, _ Known) (Effect, bool) {
			return Effect{Kind: EffectMicrotask}, strings.Contains(line, PromiseMarker)
		},
	},
}

// Classify evaluates every rule in order against line and returns the
// effects that fired. Blank lines and declaration headers yield nothing.
func Classify(line string, known Known) []Effect {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if _, ok := source.Header(trimmed); ok {
		return nil
	}

	var effects []Effect
	for _, r := range Rules {
		if e, ok := r.Match(trimmed, known); ok {
			effects = append(effects, e)
		}
	}
	return effects
}

// CallTarget reports the callee when the trimmed line is exactly "name();",
// whether or not name is declared.
func CallTarget(line string) (string, bool) {
	m := callPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LogLiteral returns the unescaped string literal of the first
// console.log call on line whose single argument is a quoted literal.
func LogLiteral(line string) (string, bool) {
	m := logPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if strings.HasPrefix(m[0], "console.log('") {
		return unescape(m[1]), true
	}
	return unescape(m[2]), true
}

var escapes = strings.NewReplacer(
	`\\`, `\`,
	`\'`, `'`,
	`\"`, `"`,
	`\n`, "\n",
	`\t`, "\t",
)

func unescape(s string) string {
	return escapes.Replace(s)
}
