package adapter

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"lmlbench/internal/timing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestResolveBinary_FirstExistingWins(t *testing.T) {
	dir := t.TempDir()
	second := writeScript(t, dir, "real-validator", "exit 0\n")

	bin, err := ResolveBinary([]string{
		filepath.Join(dir, "missing-release"),
		second,
		filepath.Join(dir, "never-reached"),
	})
	require.NoError(t, err)
	assert.Equal(t, second, bin)
}

func TestResolveBinary_SkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "not-executable")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0644))
	exe := writeScript(t, dir, "validator", "exit 0\n")

	bin, err := ResolveBinary([]string{plain, exe})
	require.NoError(t, err)
	assert.Equal(t, exe, bin)
}

func TestResolveBinary_NotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := ResolveBinary([]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")})

	var nf *BinaryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Len(t, nf.Candidates, 2)
}

func TestSubprocess_Success(t *testing.T) {
	dir := t.TempDir()
	// Checks the round-trip: the data file the harness wrote must carry
	// the original document's target field.
	bin := writeScript(t, dir, "validator",
		`test "$1" = validate || exit 3
test -f "$3" || exit 4
grep -q "Alice Example" "$5" || exit 5
test "$7" = Person || exit 6
exit 0
`)

	a := NewSubprocess("external", []string{bin}, 5*time.Second)
	w := testWorkload()
	w.Data = map[string]any{"name": "Alice Example"}
	res := a.Run(context.Background(), w)

	require.Len(t, res.Stages, 1)
	validate := res.Stages[0]
	assert.Equal(t, StageValidate, validate.Stage)
	assert.True(t, validate.OK())
	assert.GreaterOrEqual(t, validate.DurationMs, 0.0)
}

func TestSubprocess_MissingBinary(t *testing.T) {
	dir := t.TempDir()
	a := NewSubprocess("external", []string{filepath.Join(dir, "nope")}, time.Second)
	res := a.Run(context.Background(), testWorkload())

	require.Len(t, res.Stages, 1)
	validate := res.Stages[0]
	assert.Equal(t, timing.Unavailable, validate.DurationMs)

	var nf *BinaryNotFoundError
	assert.ErrorAs(t, validate.Err, &nf)
	assert.True(t, res.AllFailed())
}

func TestSubprocess_NonZeroExit(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "validator", "echo schema error >&2\nexit 7\n")

	a := NewSubprocess("external", []string{bin}, 5*time.Second)
	res := a.Run(context.Background(), testWorkload())

	require.Len(t, res.Stages, 1)
	validate := res.Stages[0]
	assert.Equal(t, timing.Unavailable, validate.DurationMs)

	var xe *ExitError
	require.ErrorAs(t, validate.Err, &xe)
	assert.Equal(t, 7, xe.ExitCode)
	assert.Contains(t, xe.Stderr, "schema error")
}

func TestSubprocess_Timeout(t *testing.T) {
	dir := t.TempDir()
	bin := writeScript(t, dir, "validator", "sleep 5\nexit 0\n")

	a := NewSubprocess("external", []string{bin}, 100*time.Millisecond)

	done := make(chan Result, 1)
	go func() { done <- a.Run(context.Background(), testWorkload()) }()

	select {
	case res := <-done:
		require.Len(t, res.Stages, 1)
		validate := res.Stages[0]
		assert.Equal(t, timing.Unavailable, validate.DurationMs)
		var te *TimeoutError
		assert.ErrorAs(t, validate.Err, &te)
	case <-time.After(4 * time.Second):
		t.Fatal("timeout was not enforced")
	}
}

func TestSubprocess_TempFilesCleanedUp(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	dir := t.TempDir()
	ok := writeScript(t, dir, "ok", "exit 0\n")
	bad := writeScript(t, dir, "bad", "exit 1\n")

	for _, bin := range []string{ok, bad} {
		a := NewSubprocess("external", []string{bin}, 5*time.Second)
		a.Run(context.Background(), testWorkload())
	}

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "lmlbench-", "leaked temp dir %s", e.Name())
	}
}
