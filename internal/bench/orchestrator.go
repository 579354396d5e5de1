package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"lmlbench/internal/adapter"
	"lmlbench/internal/report"
	"lmlbench/internal/telemetry"
	"lmlbench/internal/workload"
)

// Output formats understood by the orchestrator.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
)

// Event describes orchestrator progress, consumed by the live TUI.
type Event struct {
	Workload string
	Adapter  string
	// Result is set once the adapter finished this workload.
	Result *adapter.Result
}

// Orchestrator drives workloads × adapters strictly sequentially:
// accurate wall-clock comparison needs non-overlapping measurement
// windows, so adapters are never run in parallel. It performs no fault
// handling of its own: by the time results reach it, every failure has
// already been converted to unavailable data by the layers below.
type Orchestrator struct {
	Registry *workload.Registry
	Adapters []adapter.Adapter
	Out      io.Writer
	Format   string
	Color    bool
	OnEvent  func(Event)
}

// Run executes the full matrix, printing one comparison per workload for
// the first-registered adapter against each later one, then a closing
// summary. It always completes: a failed workload or adapter only
// produces unavailable rows.
func (o *Orchestrator) Run(ctx context.Context) *Run {
	run := &Run{Timestamp: time.Now()}

	workloads := o.Registry.All()
	for _, w := range workloads {
		results := make([]adapter.Result, 0, len(o.Adapters))
		for _, a := range o.Adapters {
			o.emit(Event{Workload: w.Name, Adapter: a.Name()})
			slog.Debug("measuring", "workload", w.Name, "adapter", a.Name())

			res := a.Run(ctx, w)
			for _, s := range res.Stages {
				telemetry.TrackStage(res.Adapter, s.Stage, s.OK())
			}
			results = append(results, res)
			o.emit(Event{Workload: w.Name, Adapter: a.Name(), Result: &res})
		}

		run.Records = append(run.Records, flatten(results)...)
		o.printComparisons(w.Name, results)
	}

	o.printSummary(run, len(workloads))
	telemetry.TrackRun()
	return run
}

func (o *Orchestrator) printComparisons(workloadName string, results []adapter.Result) {
	if o.Out == nil || len(results) < 2 {
		return
	}
	left := results[0]
	for _, right := range results[1:] {
		rows := report.Compare(left, right)
		switch o.Format {
		case FormatMarkdown:
			md := report.Markdown(workloadName, left.Adapter, right.Adapter, rows)
			fmt.Fprint(o.Out, report.RenderMarkdown(md))
		default:
			table := report.NewTable(workloadName, left.Adapter, right.Adapter, rows)
			table.Color = o.Color
			table.Write(o.Out)
		}
	}
}

func (o *Orchestrator) printSummary(run *Run, workloadCount int) {
	if o.Out == nil {
		return
	}
	measured, failed := 0, 0
	for _, rec := range run.Records {
		if rec.OK && rec.DurationMs >= 0 {
			measured++
		} else {
			failed++
		}
	}
	fmt.Fprintf(o.Out, "Workloads: %d  Adapters: %d  Stages measured: %d  Unavailable: %d\n",
		workloadCount, len(o.Adapters), measured, failed)
}

func (o *Orchestrator) emit(ev Event) {
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
}
