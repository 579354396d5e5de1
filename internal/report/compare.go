package report

import (
	"lmlbench/internal/adapter"
	"lmlbench/internal/timing"
)

// Row is one stage of a side-by-side comparison. Unavailable sides keep
// the -1 duration so every expected metric stays visible even when its
// measurement failed.
type Row struct {
	Stage   string
	LeftMs  float64
	RightMs float64
	// Speedup is LeftMs/RightMs, meaningful only when HasSpeedup.
	Speedup    float64
	HasSpeedup bool
	LeftNote   string
	RightNote  string
}

// Compare builds one row per stage over the union of both adapters'
// stages, in canonical order, extras appended in encounter order. Rows
// are never dropped: a fully unavailable stage still yields a row.
func Compare(left, right adapter.Result) []Row {
	var rows []Row
	seen := make(map[string]bool)

	for _, stage := range stageUnion(left, right) {
		if seen[stage] {
			continue
		}
		seen[stage] = true
		rows = append(rows, buildRow(stage, left, right))
	}
	return rows
}

func stageUnion(left, right adapter.Result) []string {
	names := append([]string{}, adapter.Stages...)
	for _, r := range [2]adapter.Result{left, right} {
		for _, s := range r.Stages {
			if !contains(names, s.Stage) {
				names = append(names, s.Stage)
			}
		}
	}
	return names
}

func buildRow(stage string, left, right adapter.Result) Row {
	row := Row{Stage: stage, LeftMs: timing.Unavailable, RightMs: timing.Unavailable}

	if s, ok := left.Stage(stage); ok {
		row.LeftMs = durationOf(s)
		row.LeftNote = s.Detail
	}
	if s, ok := right.Stage(stage); ok {
		row.RightMs = durationOf(s)
		row.RightNote = s.Detail
	}

	if row.LeftMs > 0 && row.RightMs > 0 {
		row.Speedup = row.LeftMs / row.RightMs
		row.HasSpeedup = true
	}
	return row
}

// durationOf treats a faulted stage as unavailable for comparison even
// when an elapsed-to-fault time was recorded; partial timings must not
// feed speedup ratios.
func durationOf(s timing.Result) float64 {
	if !s.OK() {
		return timing.Unavailable
	}
	return s.DurationMs
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
