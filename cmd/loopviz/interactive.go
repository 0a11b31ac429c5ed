package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/loopviz/config"
	"github.com/wippyai/loopviz/engine"
	"github.com/wippyai/loopviz/trace"
)

type keyMap struct {
	Step  key.Binding
	Reset key.Binding
	Edit  key.Binding
	Done  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Reset, k.Edit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Step, k.Reset}, {k.Edit, k.Done, k.Quit}}
}

var keys = keyMap{
	Step: key.NewBinding(
		key.WithKeys("n", " ", "right"),
		key.WithHelp("n/space", "step forward"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "tab"),
		key.WithHelp("e", "edit code"),
	),
	Done: key.NewBinding(
		key.WithKeys("esc", "tab"),
		key.WithHelp("esc", "stop editing"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type styles struct {
	title        lipgloss.Style
	legend       lipgloss.Style
	panel        lipgloss.Style
	webPanel     lipgloss.Style
	consolePanel lipgloss.Style
	panelTitle   lipgloss.Style
	webTitle     lipgloss.Style
	consoleTitle lipgloss.Style
	timer        lipgloss.Style
	gutter       lipgloss.Style
	highlight    lipgloss.Style
	status       lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	accent := lipgloss.Color(theme.Accent)
	web := lipgloss.Color(theme.WebAPI)
	console := lipgloss.Color(theme.Console)

	panel := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		PaddingLeft(1).
		MarginBottom(1)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1e1e1e")).
			Background(accent).
			Padding(0, 1),
		legend:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		panel:        panel.BorderForeground(accent),
		webPanel:     panel.BorderForeground(web),
		consolePanel: panel.BorderForeground(console),
		panelTitle:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		webTitle:     lipgloss.NewStyle().Bold(true).Foreground(web),
		consoleTitle: lipgloss.NewStyle().Bold(true).Foreground(console),
		timer:        lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		gutter:       lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2f4a57")),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

type visualizerModel struct {
	cfg      config.Config
	styles   styles
	engine   *engine.Engine
	snap     trace.Snapshot
	editor   textarea.Model
	help     help.Model
	filename string
	width    int
	height   int
	editing  bool
}

func newVisualizerModel(cfg config.Config, filename, src string) *visualizerModel {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(src)
	ta.Blur()

	m := &visualizerModel{
		cfg:      cfg,
		styles:   newStyles(cfg.Theme),
		editor:   ta,
		help:     help.New(),
		filename: filename,
	}
	m.rebuild()
	return m
}

// rebuild constructs a fresh engine from the editor contents. Replay
// restarts from before the first step.
func (m *visualizerModel) rebuild() {
	m.engine = engine.New(m.editor.Value(), engineOptions(m.cfg)...)
	m.snap = m.engine.Current()
	engine.Logger().Debug("engine rebuilt",
		zap.Int("steps", m.engine.Len()),
		zap.Int("diagnostics", len(m.engine.Diagnostics())),
	)
}

func (m *visualizerModel) Init() tea.Cmd {
	return nil
}

func (m *visualizerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(m.paneWidth())
		m.editor.SetHeight(max(msg.Height-4, 3))
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Step):
			if s, ok := m.engine.Next(); ok {
				m.snap = s
			}
		case key.Matches(msg, keys.Reset):
			m.engine.Reset()
			m.snap = m.engine.Current()
		case key.Matches(msg, keys.Edit):
			m.editing = true
			return m, m.editor.Focus()
		}
	}
	return m, nil
}

func (m *visualizerModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, keys.Done):
		m.editing = false
		m.editor.Blur()
		return m, nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != before {
		m.rebuild()
	}
	return m, cmd
}

func (m *visualizerModel) paneWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width/2-2, 20)
}

func (m *visualizerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Event Loop Visualizer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	left := m.sourceView()
	right := m.stateView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.paneWidth()).MarginRight(2).Render(left),
		lipgloss.NewStyle().Width(m.paneWidth()).Render(right),
	))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Done, keys.Quit}))
	} else {
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func (m *visualizerModel) sourceView() string {
	lines := strings.Split(m.editor.Value(), "\n")
	width := len(fmt.Sprint(len(lines)))
	active := m.engine.Cursor() >= 0 && m.snap.CurrentLine < len(lines)

	if m.editing {
		// the textarea cannot decorate rows, so the executing line is
		// echoed beneath it
		view := m.editor.View()
		if active {
			view += "\n" + m.renderLine(m.snap.CurrentLine, lines[m.snap.CurrentLine], width, true)
		}
		return view
	}

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(m.renderLine(i, line, width, active && i == m.snap.CurrentLine))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *visualizerModel) renderLine(i int, line string, width int, current bool) string {
	num := m.styles.gutter.Render(fmt.Sprintf("%*d ", width, i+1))
	if current {
		return num + m.styles.highlight.Render("▌"+line)
	}
	return num + " " + line
}

func (m *visualizerModel) stateView() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.panelTitle.Render("■") + s.legend.Render(" Call Stack & Queues  "))
	b.WriteString(s.webTitle.Render("■") + s.legend.Render(" Web APIs  "))
	b.WriteString(s.consoleTitle.Render("■") + s.legend.Render(" Console Output"))
	b.WriteString("\n\n")

	stackTitle := s.panelTitle.Render("Call Stack")
	if top := m.snap.Top(); top != "" {
		stackTitle += " " + s.timer.Render("running "+top)
	}
	b.WriteString(s.panel.Render(list(stackTitle, m.snap.Stack)))
	b.WriteString("\n")

	web := make([]string, len(m.snap.WebAPI))
	for i, c := range m.snap.WebAPI {
		web[i] = c.Operation
		if c.Duration > 0 {
			web[i] += " " + s.timer.Render(fmt.Sprintf("%dms", c.DurationMs()))
		}
	}
	b.WriteString(s.webPanel.Render(list(s.webTitle.Render("Web APIs"), web)))
	b.WriteString("\n")

	b.WriteString(s.panel.Render(list(s.panelTitle.Render("Microtask Queue"), m.snap.MicroTaskQueue)))
	b.WriteString("\n")
	b.WriteString(s.panel.Render(list(s.panelTitle.Render("Task Queue"), m.snap.TaskQueue)))
	b.WriteString("\n")

	out := make([]string, len(m.snap.Output))
	for i, line := range m.snap.Output {
		out[i] = "> " + line
	}
	b.WriteString(s.consolePanel.Render(list(s.consoleTitle.Render("Console Output"), out)))
	return b.String()
}

func list(title string, items []string) string {
	if len(items) == 0 {
		return title + "\n"
	}
	return title + "\n" + strings.Join(items, "\n")
}

func (m *visualizerModel) statusLine() string {
	status := fmt.Sprintf("step %d/%d", m.engine.Cursor()+1, m.engine.Len())
	if m.engine.Done() && m.engine.Len() > 0 {
		status += " (end)"
	}
	if n := len(m.engine.Diagnostics()); n > 0 {
		status += fmt.Sprintf(" • %d diagnostic(s), run with -lint", n)
	}
	return m.styles.status.Render(status)
}

func runInteractive(cfg config.Config, filename, src string) error {
	p := tea.NewProgram(newVisualizerModel(cfg, filename, src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
