package main

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"lmlbench/internal/adapter"
	"lmlbench/internal/bench"
	"lmlbench/internal/config"
	"lmlbench/internal/engine"
	"lmlbench/internal/notify"
	"lmlbench/internal/tui"
	"lmlbench/internal/workload"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	runSave      bool
	runCompare   bool
	runThreshold float64
	runStrict    bool
	runTUI       bool
	runLabel     string
	runFormat    string
	runBinary    string
	runTimeout   int
	runWorkloads []string
)

// Factory hooks, swapped out in tests.
var (
	newStoreFunc = bench.NewStore
	runTUIFunc   = tui.Run
	newNotifier  = func() notify.Notifier {
		if n := notify.NewSlackNotifier(); n != nil {
			return n
		}
		return nil
	}
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all workloads through every adapter and compare timings",
	Long: `Runs each registered workload through the native engine and the
external validator binary, one at a time, and prints per-stage timing
comparisons.

The native adapter times parse, view construction and validation as
separate stages. The external adapter covers the same work through a
single subprocess invocation, so its time is reported as one combined
validate stage; its parse and view rows show N/A.

The command exits zero even when individual stages fail or time out.
Pass --strict to exit non-zero on unavailable stages or on regressions
beyond --threshold.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerRunFlags(runCmd.Flags())
}

func registerRunFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&runSave, "save", false, "Save results to the history store")
	flags.BoolVar(&runCompare, "compare", false, "Compare against the previous saved run")
	flags.Float64Var(&runThreshold, "threshold", 10.0, "Percentage threshold for regression warnings")
	flags.BoolVar(&runStrict, "strict", false, "Exit non-zero on unavailable stages or regressions")
	flags.BoolVar(&runTUI, "tui", false, "Show live progress UI while the benchmark runs")
	flags.StringVar(&runLabel, "label", "", "Label to attach to a saved run")
	flags.StringVar(&runFormat, "format", "", "Output format: table or markdown (default from config)")
	flags.StringVar(&runBinary, "binary", "", "Path to the external validator (overrides configured candidates)")
	flags.IntVar(&runTimeout, "timeout", 0, "Subprocess timeout in seconds (overrides config)")
	flags.StringArrayVar(&runWorkloads, "workload-file", nil, "YAML workload file to load in addition to the builtins (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	registry := workload.NewRegistry()
	for _, path := range runWorkloads {
		if err := registry.LoadFile(path); err != nil {
			return err
		}
	}

	format := runFormat
	if format == "" {
		format = viper.GetString("format")
	}
	if format != bench.FormatTable && format != bench.FormatMarkdown {
		return fmt.Errorf("unknown format %q (want table or markdown)", format)
	}

	orch := &bench.Orchestrator{
		Registry: registry,
		Adapters: buildAdapters(),
		Out:      cmd.OutOrStdout(),
		Format:   format,
		Color:    termenv.ColorProfile() != termenv.Ascii,
	}

	var run *bench.Run
	if runTUI {
		run = runWithTUI(cmd, orch)
	} else {
		run = orch.Run(cmd.Context())
	}

	if runSave || runCompare {
		if err := persistAndCompare(cmd, run); err != nil {
			return err
		}
	}

	if n := newNotifier(); n != nil {
		msg := summaryMessage(run)
		if err := n.Notify(cmd.Context(), msg); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: slack notification failed: %v\n", err)
		}
	}

	if runStrict && run.AllFailed() {
		return fmt.Errorf("no stage produced a usable measurement")
	}
	if runStrict {
		for _, rec := range run.Records {
			if !rec.OK {
				return fmt.Errorf("stage %s/%s/%s unavailable: %s",
					rec.Workload, rec.Adapter, rec.Stage, rec.Detail)
			}
		}
	}
	return nil
}

// buildAdapters assembles the adapter list: the in-process reference
// engine first, then the external binary. The first adapter is the
// comparison baseline.
func buildAdapters() []adapter.Adapter {
	native := adapter.NewInProcess("native", engine.New())

	candidates := viper.GetStringSlice("external.candidates")
	if runBinary != "" {
		candidates = []string{runBinary}
	}
	timeout := config.Timeout()
	if runTimeout > 0 {
		timeout = time.Duration(runTimeout) * time.Second
	}
	external := adapter.NewSubprocess(viper.GetString("external.name"), candidates, timeout)

	return []adapter.Adapter{native, external}
}

// runWithTUI runs the orchestrator in the background, feeding progress
// events to the live UI, and replays the buffered report afterwards.
func runWithTUI(cmd *cobra.Command, orch *bench.Orchestrator) *bench.Run {
	var buf bytes.Buffer
	orch.Out = &buf
	orch.Color = false

	events := make(chan bench.Event, 16)
	orch.OnEvent = func(ev bench.Event) { events <- ev }

	done := make(chan *bench.Run, 1)
	go func() {
		run := orch.Run(cmd.Context())
		close(events)
		done <- run
	}()

	err := runTUIFunc(events)
	// Drain whatever the UI left unconsumed (early quit included) so the
	// orchestrator never blocks sending to the event channel.
	for range events {
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: progress UI failed: %v\n", err)
	}
	run := <-done

	fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return run
}

func persistAndCompare(cmd *cobra.Command, run *bench.Run) error {
	store, err := newStoreFunc(bench.StoreConfig{
		Type:             viper.GetString("store.type"),
		ConnectionString: viper.GetString("store.connection"),
	})
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	if runCompare {
		prev, err := store.LoadLatest()
		if err != nil {
			return fmt.Errorf("failed to load previous run: %w", err)
		}
		if prev == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No previous run to compare against.")
		} else {
			if err := printRegressions(cmd, *prev, *run); err != nil {
				return err
			}
		}
	}

	if runSave {
		run.Label = runLabel
		if err := store.Save(*run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Run saved to history.")
	}
	return nil
}

func printRegressions(cmd *cobra.Command, prev, curr bench.Run) error {
	regs := bench.CompareRuns(prev, curr)
	if len(regs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No comparable stages between runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WORKLOAD\tADAPTER\tSTAGE\tPREV (ms)\tCURR (ms)\tDIFF %\tSTATUS")
	var regressed bool
	for _, r := range regs {
		status := "PASS"
		switch {
		case r.Slower(runThreshold):
			status = "REGRESSION"
			regressed = true
		case r.DiffPercent < -runThreshold:
			status = "IMPROVED"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%+.2f%%\t%s\n",
			r.Workload, r.Adapter, r.Stage, r.PrevMs, r.CurrMs, r.DiffPercent, status)
	}
	w.Flush()

	if regressed && runStrict {
		return fmt.Errorf("performance regression beyond %.1f%% threshold", runThreshold)
	}
	return nil
}

func summaryMessage(run *bench.Run) string {
	measured, failed := 0, 0
	for _, rec := range run.Records {
		if rec.OK && rec.DurationMs >= 0 {
			measured++
		} else {
			failed++
		}
	}
	return fmt.Sprintf("lmlbench run finished: %d stages measured, %d unavailable", measured, failed)
}
