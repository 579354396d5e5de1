package timing

import (
	"fmt"
	"time"
)

// Unavailable is the reserved duration meaning a stage could not be
// measured at all. Distinct from a true zero-duration measurement.
const Unavailable = -1.0

// Result records one measured stage of an implementation under test.
type Result struct {
	Stage      string  `json:"stage"`
	DurationMs float64 `json:"duration_ms"`
	Value      any     `json:"-"`
	Err        error   `json:"-"`
	Detail     string  `json:"detail,omitempty"`
}

// OK reports whether the stage completed without a fault.
func (r Result) OK() bool {
	return r.Err == nil
}

// Available reports whether the stage produced a usable duration.
func (r Result) Available() bool {
	return r.DurationMs >= 0
}

// Measure runs op and times it with the monotonic clock, returning the
// elapsed wall time in milliseconds. Errors and panics are captured into
// the Result rather than escaping: a crash in one measured stage must not
// abort measurement of other stages. Elapsed time is reported even when
// op faults (time up to the fault point).
func Measure(stage string, op func() (any, error)) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Stage:      stage,
				DurationMs: msSince(start),
				Err:        fmt.Errorf("panic: %v", r),
				Detail:     fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	value, err := op()
	res = Result{
		Stage:      stage,
		DurationMs: msSince(start),
		Value:      value,
		Err:        err,
	}
	if err != nil {
		res.Detail = err.Error()
	}
	return res
}

// Skipped returns an unavailable Result for a stage that was never run
// because an earlier stage failed. No retries are performed downstream.
func Skipped(stage, reason string) Result {
	return Result{
		Stage:      stage,
		DurationMs: Unavailable,
		Err:        fmt.Errorf("skipped: %s", reason),
		Detail:     "skipped: " + reason,
	}
}

// Failed returns an unavailable Result carrying err, for stages where no
// meaningful elapsed time exists (timeout, missing binary).
func Failed(stage string, err error) Result {
	return Result{
		Stage:      stage,
		DurationMs: Unavailable,
		Err:        err,
		Detail:     err.Error(),
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
