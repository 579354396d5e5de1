package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const unavailableMark = "N/A"

var (
	workloadTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#7D56F4"))

	fasterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")) // Green

	slowerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red

	unavailableStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")) // Dim gray
)

// Table renders comparison rows for one workload as a plain-text table.
type Table struct {
	Workload string
	Left     string
	Right    string
	Rows     []Row
	Color    bool
}

// NewTable builds a printable table, enabling color only when the
// terminal supports it.
func NewTable(workloadName, leftName, rightName string, rows []Row) *Table {
	return &Table{
		Workload: workloadName,
		Left:     leftName,
		Right:    rightName,
		Rows:     rows,
		Color:    termenv.ColorProfile() != termenv.Ascii,
	}
}

// Write renders the table. Milliseconds carry two decimals, speedups one;
// missing measurements are explicit, never dropped.
func (t *Table) Write(out io.Writer) {
	title := fmt.Sprintf("=== %s: %s vs %s ===", t.Workload, t.Left, t.Right)
	if t.Color {
		title = workloadTitleStyle.Render(title)
	}
	fmt.Fprintln(out, title)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "STAGE\t%s (ms)\t%s (ms)\tSPEEDUP\n",
		strings.ToUpper(t.Left), strings.ToUpper(t.Right))

	for _, row := range t.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.Stage,
			t.cell(row.LeftMs, row.LeftNote),
			t.cell(row.RightMs, row.RightNote),
			t.speedupCell(row))
	}
	w.Flush()
	fmt.Fprintln(out)
}

func (t *Table) cell(ms float64, note string) string {
	if ms < 0 {
		s := unavailableMark
		if note != "" {
			s += " (" + firstLine(note) + ")"
		}
		if t.Color {
			return unavailableStyle.Render(s)
		}
		return s
	}
	return fmt.Sprintf("%.2f", ms)
}

func (t *Table) speedupCell(row Row) string {
	if !row.HasSpeedup {
		if t.Color {
			return unavailableStyle.Render(unavailableMark)
		}
		return unavailableMark
	}
	s := fmt.Sprintf("%.1fx", row.Speedup)
	if !t.Color {
		return s
	}
	// Speedup is left/right: above 1 the right side is faster.
	if row.Speedup > 1 {
		return fasterStyle.Render(s)
	}
	return slowerStyle.Render(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
