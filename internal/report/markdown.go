package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders comparison rows as a GitHub-style table, for report
// files and for pretty terminal output via RenderMarkdown.
func Markdown(workloadName, leftName, rightName string, rows []Row) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", workloadName)
	fmt.Fprintf(&sb, "| Stage | %s (ms) | %s (ms) | Speedup |\n", leftName, rightName)
	sb.WriteString("|---|---|---|---|\n")

	for _, row := range rows {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			row.Stage, mdCell(row.LeftMs), mdCell(row.RightMs), mdSpeedup(row))
	}
	sb.WriteString("\n")
	return sb.String()
}

func mdCell(ms float64) string {
	if ms < 0 {
		return unavailableMark
	}
	return fmt.Sprintf("%.2f", ms)
}

func mdSpeedup(row Row) string {
	if !row.HasSpeedup {
		return unavailableMark
	}
	return fmt.Sprintf("%.1fx", row.Speedup)
}

// RenderMarkdown pretty-prints markdown for the terminal. Falls back to
// the raw text if the renderer cannot be constructed.
func RenderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
