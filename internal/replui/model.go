// Package replui is `wisp repl --tui`'s full-screen view: the current
// call stack and live GC stats, refreshed after each line the user
// submits. It drives a bubbletea program over a channel of snapshots the
// same way any progress-model TUI drives itself from a channel of pipeline
// events — here the "events" are just snapshots taken after each evaluated
// line rather than a streaming build pipeline, since the VM's interpreter
// loop has no suspension points to report progress from mid-execution (§5).
package replui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"wisp"
)

// Snapshot is one line's worth of state for the view to render: the
// source line just evaluated, its result or error, and the VM's frame
// stack / GC stats at that moment.
type Snapshot struct {
	Line   string
	Output string
	Err    string
	Frames []wisp.FrameInfo
	Stats  wisp.GCStats
}

type snapshotMsg Snapshot
type quitMsg struct{}

// Model is the bubbletea model for the REPL's TUI mode.
type Model struct {
	Lines  <-chan Snapshot
	Quit   <-chan struct{}
	width  int
	latest Snapshot
	done   bool
}

// New returns a Model that renders whatever Snapshot arrives on lines,
// until quit is closed or receives a value.
func New(lines <-chan Snapshot, quit <-chan struct{}) *Model {
	return &Model{Lines: lines, Quit: quit, width: 80}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenLine(), m.listenQuit())
}

func (m *Model) listenLine() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.Lines
		if !ok {
			return quitMsg{}
		}
		return snapshotMsg(s)
	}
}

func (m *Model) listenQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.Quit
		return quitMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.latest = Snapshot(msg)
		return m, m.listenLine()
	case quitMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	stackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("wisp repl"))
	b.WriteString("\n\n")

	lineWidth := m.width - 2
	if lineWidth < 20 {
		lineWidth = 20
	}
	b.WriteString("> ")
	b.WriteString(truncate(m.latest.Line, lineWidth-2))
	b.WriteByte('\n')

	if m.latest.Err != "" {
		b.WriteString(errStyle.Render(m.latest.Err))
		b.WriteByte('\n')
	} else if m.latest.Output != "" {
		b.WriteString(m.latest.Output)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("call stack:"))
	b.WriteByte('\n')
	if len(m.latest.Frames) == 0 {
		b.WriteString(dimStyle.Render("  (empty)"))
		b.WriteByte('\n')
	}
	for i, f := range m.latest.Frames {
		kind := "script"
		if f.Native {
			kind = "native"
		}
		b.WriteString(stackStyle.Render(fmt.Sprintf("  #%d %s (%s, line %d)", i, f.FunctionName, kind, f.Line)))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"gc: %d bytes allocated / %d threshold, %d live objects",
		m.latest.Stats.BytesAllocated, m.latest.Stats.HeapSize, m.latest.Stats.LiveObjects,
	)))
	b.WriteByte('\n')
	b.WriteString(dimStyle.Render("(ctrl+c or q to quit)"))
	b.WriteByte('\n')

	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
