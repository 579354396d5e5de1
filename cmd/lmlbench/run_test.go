package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lmlbench/internal/bench"
	"lmlbench/internal/config"
	"lmlbench/internal/notify"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory bench.Store for command tests.
type fakeStore struct {
	saved   []bench.Run
	latest  *bench.Run
	all     []bench.Run
	loadErr error
	saveErr error
	closed  bool
}

func (f *fakeStore) Close() error { f.closed = true; return nil }
func (f *fakeStore) Save(run bench.Run) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, run)
	return nil
}
func (f *fakeStore) LoadLatest() (*bench.Run, error) { return f.latest, f.loadErr }
func (f *fakeStore) LoadAll() ([]bench.Run, error)   { return f.all, f.loadErr }

func resetRunFlags(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_BOT_USER_TOKEN", "")
	viper.Reset()
	config.SetDefaults()
	runSave = false
	runCompare = false
	runThreshold = 10.0
	runStrict = false
	runTUI = false
	runLabel = ""
	runFormat = ""
	runBinary = ""
	runTimeout = 0
	runWorkloads = nil
	origStore := newStoreFunc
	origTUI := runTUIFunc
	origNotify := newNotifier
	t.Cleanup(func() {
		viper.Reset()
		newStoreFunc = origStore
		runTUIFunc = origTUI
		newNotifier = origNotify
	})
}

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestRunCommand_PrintsComparisons(t *testing.T) {
	resetRunFlags(t)
	// Candidates resolve to nothing, so the external adapter reports
	// every stage as unavailable while the native engine measures.
	viper.Set("external.candidates", []string{"/nonexistent/validator"})

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRun(cmd, nil))

	output := out.String()
	assert.Contains(t, output, "=== simple: native vs external ===")
	assert.Contains(t, output, "=== complex: native vs external ===")
	assert.Contains(t, output, "=== wide: native vs external ===")
	assert.Contains(t, output, "parse")
	assert.Contains(t, output, "N/A")
	assert.Contains(t, output, "Workloads: 3  Adapters: 2")
}

func TestRunCommand_StrictFailsOnUnavailable(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})
	runStrict = true

	cmd, _, _ := newTestCmd()
	err := runRun(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestRunCommand_BadFormat(t *testing.T) {
	resetRunFlags(t)
	runFormat = "xml"

	cmd, _, _ := newTestCmd()
	err := runRun(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestRunCommand_SaveAndCompare(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})

	store := &fakeStore{
		latest: &bench.Run{Records: []bench.StageRecord{
			{Workload: "simple", Adapter: "native", Stage: "parse", DurationMs: 0.0001, OK: true},
		}},
	}
	newStoreFunc = func(cfg bench.StoreConfig) (bench.Store, error) { return store, nil }

	runSave = true
	runCompare = true
	runLabel = "nightly"
	// Generous threshold keeps timing noise from flagging a regression.
	runThreshold = 1e9

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRun(cmd, nil))

	require.Len(t, store.saved, 1)
	assert.Equal(t, "nightly", store.saved[0].Label)
	assert.True(t, store.closed)
	assert.Contains(t, out.String(), "Run saved to history.")
	assert.Contains(t, out.String(), "PREV (ms)")
}

func TestRunCommand_CompareWithoutHistory(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})

	newStoreFunc = func(cfg bench.StoreConfig) (bench.Store, error) { return &fakeStore{}, nil }
	runCompare = true

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRun(cmd, nil))
	assert.Contains(t, out.String(), "No previous run to compare against.")
}

func TestRunCommand_StoreOpenError(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})

	newStoreFunc = func(cfg bench.StoreConfig) (bench.Store, error) {
		return nil, errors.New("connection refused")
	}
	runSave = true

	cmd, _, _ := newTestCmd()
	err := runRun(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open history store")
}

func TestRunCommand_TUIReplaysOutput(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})
	runTUI = true

	var seen int
	runTUIFunc = func(events <-chan bench.Event) error {
		for range events {
			seen++
		}
		return nil
	}

	cmd, out, _ := newTestCmd()
	require.NoError(t, runRun(cmd, nil))

	// Two events per adapter per workload: started and finished.
	assert.Equal(t, 12, seen)
	assert.Contains(t, out.String(), "=== simple: native vs external ===")
}

func TestRunCommand_TUIEarlyQuitDoesNotHang(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})
	runTUI = true

	// Five workloads produce more events than the channel buffer holds,
	// so an unconsumed backlog would block the orchestrator goroutine.
	extra := filepath.Join(t.TempDir(), "extra.yaml")
	content := `workloads:
  - name: extra-a
    target_class: Person
    schema: |
      id: extra-a
      name: extra-a
      classes:
        Person:
          slots: [name]
      slots:
        name:
          range: string
    data:
      name: Ada
  - name: extra-b
    target_class: Person
    schema: |
      id: extra-b
      name: extra-b
      classes:
        Person:
          slots: [name]
      slots:
        name:
          range: string
    data:
      name: Grace
`
	require.NoError(t, os.WriteFile(extra, []byte(content), 0644))
	runWorkloads = []string{extra}

	// A UI the user quits immediately: returns without reading any events.
	runTUIFunc = func(events <-chan bench.Event) error { return nil }

	cmd, out, _ := newTestCmd()
	done := make(chan error, 1)
	go func() { done <- runRun(cmd, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runRun did not return after the progress UI exited early")
	}
	assert.Contains(t, out.String(), "=== extra-b: native vs external ===")
}

func TestRunCommand_NotifierFailureIsWarning(t *testing.T) {
	resetRunFlags(t)
	viper.Set("external.candidates", []string{"/nonexistent/validator"})

	newNotifier = func() notify.Notifier {
		return notifyFunc(func(ctx context.Context, msg string) error {
			return errors.New("slack down")
		})
	}

	cmd, _, errOut := newTestCmd()
	require.NoError(t, runRun(cmd, nil))
	assert.Contains(t, errOut.String(), "slack notification failed")
}

type notifyFunc func(ctx context.Context, message string) error

func (f notifyFunc) Notify(ctx context.Context, message string) error { return f(ctx, message) }

func TestPrintRegressions_StrictThreshold(t *testing.T) {
	resetRunFlags(t)
	runStrict = true
	runThreshold = 10.0

	prev := bench.Run{Records: []bench.StageRecord{
		{Workload: "simple", Adapter: "native", Stage: "validate", DurationMs: 10, OK: true},
	}}
	curr := bench.Run{Records: []bench.StageRecord{
		{Workload: "simple", Adapter: "native", Stage: "validate", DurationMs: 15, OK: true},
	}}

	cmd, out, _ := newTestCmd()
	err := printRegressions(cmd, prev, curr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regression")
	assert.Contains(t, out.String(), "REGRESSION")
}

func TestBuildAdapters_Overrides(t *testing.T) {
	resetRunFlags(t)
	runBinary = "/opt/validator"
	runTimeout = 3

	adapters := buildAdapters()
	require.Len(t, adapters, 2)
	assert.Equal(t, "native", adapters[0].Name())
	assert.Equal(t, "external", adapters[1].Name())
}
