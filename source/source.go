package source

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/loopviz/errors"
)

// headerPattern matches a zero-argument arrow function bound to a const,
// opening its block on the same line.
var headerPattern = regexp.MustCompile(`const\s+(\w+)\s*=\s*\(\)\s*=>\s*{`)

// FunctionRecord is one committed declaration.
// Body[i] is source line Start+i; the header and closing lines are included.
type FunctionRecord struct {
	Name  string
	Body  []string
	Start int
	End   int
}

// Lines splits source text on '\n'. A trailing "\r" is kept on each line;
// callers trim before matching.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// Header reports the declared name when line opens a function declaration.
func Header(line string) (string, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// AfterHeader returns the text following the declaration header's opening
// brace, e.g. " console.log('x'); };" for a one-line declaration.
func AfterHeader(line string) (string, bool) {
	loc := headerPattern.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[1]:], true
}

type capture struct {
	name  string
	start int
	body  []string
	depth int
}

// Extract scans text once and returns the table of committed declarations.
//
// Capture begins at a header line and accumulates lines while tracking brace
// depth (every '{' and '}' on each line counts, header included). The record
// is committed when depth returns to zero. Only one capture is active at a
// time: a header seen while capturing discards the in-progress capture and
// restarts on the new name. Captures that never balance are dropped.
func Extract(text string) *Table {
	t := newTable()
	lines := Lines(text)

	var cur *capture
	for i, line := range lines {
		if name, ok := Header(line); ok {
			if cur != nil {
				t.diags = append(t.diags, errors.NestedDeclaration(cur.name, name, i))
			}
			cur = &capture{name: name, start: i}
		}
		if cur == nil {
			continue
		}

		cur.body = append(cur.body, line)
		cur.depth += strings.Count(line, "{")
		cur.depth -= strings.Count(line, "}")

		if cur.depth == 0 {
			t.commit(&FunctionRecord{
				Name:  cur.name,
				Body:  cur.body,
				Start: cur.start,
				End:   i,
			})
			cur = nil
		}
	}

	if cur != nil {
		t.diags = append(t.diags, errors.UnbalancedBlock(cur.name, cur.start, cur.depth))
	}

	Logger().Debug("functions extracted",
		zap.Int("lines", len(lines)),
		zap.Int("functions", t.Len()),
		zap.Int("diagnostics", len(t.diags)),
	)
	return t
}
