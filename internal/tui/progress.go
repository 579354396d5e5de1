package tui

import (
	"fmt"
	"strings"

	"lmlbench/internal/bench"
	"lmlbench/internal/timing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type eventMsg bench.Event
type doneMsg struct{}

// line is one finished workload/adapter pair in the scrollback.
type line struct {
	workload string
	adapter  string
	stages   []timing.Result
}

// ProgressModel renders live benchmark progress while the orchestrator
// runs in the background and feeds events through a channel.
type ProgressModel struct {
	spinner  spinner.Model
	events   <-chan bench.Event
	lines    []line
	current  string
	done     bool
	quitting bool
}

func NewProgressModel(events <-chan bench.Event) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return ProgressModel{spinner: s, events: events}
}

func waitForEvent(events <-chan bench.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		ev := bench.Event(msg)
		if ev.Result == nil {
			m.current = fmt.Sprintf("%s / %s", ev.Workload, ev.Adapter)
		} else {
			m.lines = append(m.lines, line{
				workload: ev.Workload,
				adapter:  ev.Adapter,
				stages:   ev.Result.Stages,
			})
			m.current = ""
		}
		return m, waitForEvent(m.events)

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lmlbench"))
	b.WriteString("\n\n")

	for _, l := range m.lines {
		b.WriteString(renderLine(l))
		b.WriteString("\n")
	}

	switch {
	case m.done:
		b.WriteString(dimStyle.Render("all workloads finished"))
		b.WriteString("\n")
	case m.current != "":
		b.WriteString(fmt.Sprintf("%s measuring %s\n", m.spinner.View(), m.current))
	}

	if !m.done {
		b.WriteString(helpStyle.Render("q: quit"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLine(l line) string {
	parts := make([]string, 0, len(l.stages))
	for _, st := range l.stages {
		switch {
		case st.OK():
			parts = append(parts, okStyle.Render(fmt.Sprintf("%s %.2fms", st.Stage, st.DurationMs)))
		default:
			parts = append(parts, failStyle.Render(fmt.Sprintf("%s N/A", st.Stage)))
		}
	}
	return fmt.Sprintf("  %-12s %-10s %s", l.workload, l.adapter, strings.Join(parts, "  "))
}

// Run drives the progress UI until the event channel closes or the user
// quits. Quitting the UI does not cancel the benchmark.
func Run(events <-chan bench.Event) error {
	p := tea.NewProgram(NewProgressModel(events))
	_, err := p.Run()
	return err
}
