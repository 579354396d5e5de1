package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"lmlbench/internal/timing"
	"lmlbench/internal/workload"
)

// DefaultTimeout bounds one subprocess invocation so a hung candidate
// implementation cannot stall the whole run.
const DefaultTimeout = 10 * time.Second

// Subprocess measures an external validator binary. The whole subprocess
// wall time, process startup included, is reported as a single collapsed
// validate stage: the parse/view/validate split happens inside the opaque
// process and separate sub-timings would be fabrication. Comparisons
// against the in-process variant carry this asymmetry; changing the
// methodology here changes what the numbers mean.
type Subprocess struct {
	name       string
	candidates []string
	timeout    time.Duration
}

// NewSubprocess returns an adapter that resolves the binary from the
// ordered candidate paths at run time. A zero timeout means
// DefaultTimeout.
func NewSubprocess(name string, candidates []string, timeout time.Duration) *Subprocess {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Subprocess{name: name, candidates: candidates, timeout: timeout}
}

func (a *Subprocess) Name() string { return a.name }

// ResolveBinary probes the candidate paths in order and returns the first
// existing executable. Pure filesystem search; evaluated lazily, stopping
// at the first match.
func ResolveBinary(candidates []string) (string, error) {
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		return c, nil
	}
	return "", &BinaryNotFoundError{Candidates: candidates}
}

// Run writes the workload to unique temp files, invokes the binary under
// the bounded timeout, and maps every fault to an unavailable stage.
// Temp files are removed on success and failure alike.
func (a *Subprocess) Run(ctx context.Context, w workload.Workload) Result {
	res := Result{Adapter: a.name, Workload: w.Name}

	bin, err := ResolveBinary(a.candidates)
	if err != nil {
		slog.Debug("binary not found", "adapter", a.name, "workload", w.Name, "error", err)
		res.Stages = append(res.Stages, timing.Failed(StageValidate, err))
		return res
	}

	schemaPath, dataPath, cleanup, err := writeWorkloadFiles(w)
	if err != nil {
		res.Stages = append(res.Stages, timing.Failed(StageValidate, err))
		return res
	}
	defer cleanup()

	cmdCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, bin, "validate",
		"--schema", schemaPath,
		"--data", dataPath,
		"--target-class", w.TargetClass)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

	if runErr != nil {
		if cmdCtx.Err() == context.DeadlineExceeded || errors.Is(runErr, context.DeadlineExceeded) {
			terr := &TimeoutError{Binary: bin, Timeout: a.timeout.String()}
			slog.Warn("subprocess timed out", "adapter", a.name, "workload", w.Name, "timeout", a.timeout)
			res.Stages = append(res.Stages, timing.Failed(StageValidate, terr))
			return res
		}

		code := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		xerr := &ExitError{Binary: bin, ExitCode: code, Stderr: stderr.String()}
		slog.Warn("subprocess failed", "adapter", a.name, "workload", w.Name,
			"exit_code", code, "stderr", strings.TrimSpace(stderr.String()))
		res.Stages = append(res.Stages, timing.Failed(StageValidate, xerr))
		return res
	}

	res.Stages = append(res.Stages, timing.Result{
		Stage:      StageValidate,
		DurationMs: elapsed,
		Value:      stdout.String(),
	})
	return res
}

// writeWorkloadFiles serializes the schema (native text) and the data
// (JSON) into a fresh per-invocation directory. The directory name
// includes the workload name so sequential runs never race on content;
// this also keeps a future parallel-run extension collision-free.
func writeWorkloadFiles(w workload.Workload) (schemaPath, dataPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "lmlbench-"+sanitizeName(w.Name)+"-*")
	if err != nil {
		return "", "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	schemaPath = filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(schemaPath, []byte(w.Schema), 0644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("write schema: %w", err)
	}

	raw, err := json.Marshal(w.Data)
	if err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("encode data: %w", err)
	}
	dataPath = filepath.Join(dir, "data.json")
	if err := os.WriteFile(dataPath, raw, 0644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("write data: %w", err)
	}

	return schemaPath, dataPath, cleanup, nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
