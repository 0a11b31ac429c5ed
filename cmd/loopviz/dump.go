package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/loopviz/engine"
	"github.com/wippyai/loopviz/errors"
	"github.com/wippyai/loopviz/trace"
)

type dumpDocument struct {
	Functions   []string         `yaml:"functions"`
	Steps       []trace.Snapshot `yaml:"steps"`
	Diagnostics []string         `yaml:"diagnostics,omitempty"`
}

func runDump(w io.Writer, e *engine.Engine, format string) error {
	switch format {
	case "yaml":
		doc := dumpDocument{
			Functions: e.Functions(),
			Steps:     e.Steps(),
		}
		for _, d := range e.Diagnostics() {
			doc.Diagnostics = append(doc.Diagnostics, d.Error())
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "text", "":
		for {
			s, ok := e.Next()
			if !ok {
				break
			}
			fmt.Fprintln(w, formatStep(e.Cursor()+1, e.Len(), s))
		}
		return nil
	default:
		return errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Value(format).
			Detail("unknown dump format %q (want text or yaml)", format).
			Build()
	}
}

func formatStep(n, total int, s trace.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "step %d/%d  line %d\n", n, total, s.CurrentLine+1)
	fmt.Fprintf(&b, "  stack:      [%s]\n", strings.Join(s.Stack, ", "))
	fmt.Fprintf(&b, "  web api:    [%s]\n", strings.Join(webAPILabels(s.WebAPI), ", "))
	fmt.Fprintf(&b, "  microtasks: [%s]\n", strings.Join(s.MicroTaskQueue, ", "))
	fmt.Fprintf(&b, "  tasks:      [%s]\n", strings.Join(s.TaskQueue, ", "))
	fmt.Fprintf(&b, "  output:     [%s]", strings.Join(s.Output, ", "))
	return b.String()
}

func webAPILabels(calls []trace.WebAPICall) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = fmt.Sprintf("%s %dms", c.Operation, c.DurationMs())
	}
	return out
}

func runLint(w io.Writer, e *engine.Engine) error {
	if l := errors.NewList(e.Diagnostics()); l != nil {
		return l
	}
	fmt.Fprintln(w, "no diagnostics")
	return nil
}
