package adapter

import (
	"fmt"
	"strings"
)

// BinaryNotFoundError means none of the probed candidate paths held an
// existing, executable file. Reported per workload; never fatal to a run.
type BinaryNotFoundError struct {
	Candidates []string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("no executable found among candidates: %s",
		strings.Join(e.Candidates, ", "))
}

// TimeoutError means the subprocess exceeded the bounded wait.
type TimeoutError struct {
	Binary  string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Binary, e.Timeout)
}

// ExitError means the subprocess finished with a non-zero exit code.
// Stderr is captured for diagnostics but never parsed.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
