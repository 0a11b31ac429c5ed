package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/loopviz/config"
	"github.com/wippyai/loopviz/engine"
	"github.com/wippyai/loopviz/errors"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRunDump_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDump(&buf, engine.New(sampleProgram), "text"))

	out := buf.String()
	assert.Contains(t, out, "step 1/6  line 2")
	assert.Contains(t, out, "step 6/6  line 9")
	assert.Contains(t, out, "setTimeout 2000ms")
	assert.Contains(t, out, "output:     [Hello, Timeout, Promise, End]")
}

func TestRunDump_YAML(t *testing.T) {
	src := "const f = () => {\n  setTimeout(() => {}, 5);\n};\nf();\nnope();"
	var buf bytes.Buffer
	require.NoError(t, runDump(&buf, engine.New(src), "yaml"))

	var doc struct {
		Functions []string `yaml:"functions"`
		Steps     []struct {
			Stack       []string `yaml:"stack"`
			TaskQueue   []string `yaml:"task_queue"`
			CurrentLine int      `yaml:"current_line"`
		} `yaml:"steps"`
		Diagnostics []string `yaml:"diagnostics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []string{"f"}, doc.Functions)
	require.Len(t, doc.Steps, 3)
	assert.Equal(t, []string{"f()"}, doc.Steps[1].Stack)
	assert.Equal(t, []string{"setTimeout callback"}, doc.Steps[1].TaskQueue)
	assert.Equal(t, 2, doc.Steps[2].CurrentLine)
	require.Len(t, doc.Diagnostics, 1)
	assert.Contains(t, doc.Diagnostics[0], "unknown_call")
	assert.Contains(t, buf.String(), "duration: 2s")
}

func TestRunDump_UnknownFormat(t *testing.T) {
	err := runDump(&bytes.Buffer{}, engine.New(""), "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindUnsupported})
}

func TestRunLint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runLint(&buf, engine.New(sampleProgram)))
	assert.Equal(t, "no diagnostics\n", buf.String())

	err := runLint(&buf, engine.New("missing();\nconst f = () => {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 diagnostic(s)")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseClassify, Kind: errors.KindUnknownCall})
}

func TestReadSource(t *testing.T) {
	src, name, err := readSource("")
	require.NoError(t, err)
	assert.Equal(t, sampleProgram, src)
	assert.Equal(t, "sample.js", name)

	path := filepath.Join(t.TempDir(), "prog.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log('x');"), 0o600))
	src, name, err = readSource(path)
	require.NoError(t, err)
	assert.Equal(t, "console.log('x');", src)
	assert.Equal(t, path, name)

	_, _, err = readSource(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(config.Log{Level: "info"})
	require.NoError(t, err)
	require.NotNil(t, l)

	path := filepath.Join(t.TempDir(), "loopviz.log")
	l, err = newLogger(config.Log{Level: "debug", File: path})
	require.NoError(t, err)
	l.Debug("hello")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")

	_, err = newLogger(config.Log{Level: "nope", File: path})
	require.Error(t, err)
}

func TestVisualizer_StepAndReset(t *testing.T) {
	m := newVisualizerModel(config.Default(), "sample.js", sampleProgram)
	assert.Equal(t, -1, m.engine.Cursor())
	assert.Empty(t, m.snap.Output)

	m.Update(runes("n"))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 1, m.engine.Cursor())
	assert.Equal(t, []string{"Hello"}, m.snap.Output)
	assert.Equal(t, []string{"setTimeout callback"}, m.snap.TaskQueue)

	// stepping past the end keeps the last snapshot on screen
	for i := 0; i < 20; i++ {
		m.Update(runes("n"))
	}
	assert.Equal(t, []string{"Hello", "Timeout", "Promise", "End"}, m.snap.Output)
	assert.Contains(t, m.View(), "(end)")

	m.Update(runes("r"))
	assert.Equal(t, -1, m.engine.Cursor())
	assert.Empty(t, m.snap.Output)
}

func TestVisualizer_EditRebuilds(t *testing.T) {
	m := newVisualizerModel(config.Default(), "sample.js", sampleProgram)
	m.Update(runes("n"))
	require.Equal(t, 6, m.engine.Len())

	m.Update(runes("e"))
	require.True(t, m.editing)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runes("console.log('Z');"))
	assert.Equal(t, 7, m.engine.Len())
	assert.Equal(t, -1, m.engine.Cursor(), "edits restart replay")

	// keys go to the editor while editing
	m.Update(runes("n"))
	assert.Equal(t, -1, m.engine.Cursor())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.editing)
	m.Update(runes("n"))
	assert.Equal(t, 0, m.engine.Cursor())
}

func TestVisualizer_View(t *testing.T) {
	m := newVisualizerModel(config.Default(), "sample.js", sampleProgram)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m.Update(runes("n"))
	m.Update(runes("n"))

	view := m.View()
	for _, want := range []string{
		"Event Loop Visualizer",
		"Call Stack",
		"Web APIs",
		"Microtask Queue",
		"Task Queue",
		"Console Output",
		"> Hello",
		"2000ms",
		"setTimeout callback",
		"step 2/6",
	} {
		assert.True(t, strings.Contains(view, want), "view missing %q", want)
	}
}

func TestVisualizer_StackPanelShowsRunningFrame(t *testing.T) {
	src := "const f = () => {\n  console.log('x');\n};\nf();"
	m := newVisualizerModel(config.Default(), "prog.js", src)
	assert.NotContains(t, m.View(), "running")

	m.Update(runes("n"))
	assert.Contains(t, m.View(), "running f()")
}

func TestVisualizer_HighlightWhileEditing(t *testing.T) {
	m := newVisualizerModel(config.Default(), "sample.js", sampleProgram)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m.Update(runes("n"))

	m.Update(runes("e"))
	require.True(t, m.editing)
	assert.Contains(t, m.sourceView(), "▌console.log('Hello');")

	// an edit rebuilds the engine, so there is no current line any more
	m.Update(runes("x"))
	assert.NotContains(t, m.sourceView(), "▌")
}

func TestVisualizer_Quit(t *testing.T) {
	m := newVisualizerModel(config.Default(), "sample.js", "")
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
