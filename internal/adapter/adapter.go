package adapter

import (
	"context"

	"lmlbench/internal/timing"
	"lmlbench/internal/workload"
)

// Canonical stage names. The external-process variant reports only
// StageValidate; parse and view happen inside the opaque subprocess and
// are not fabricated as separate timings.
const (
	StageParse    = "parse"
	StageView     = "view"
	StageValidate = "validate"
)

// Stages is the canonical stage order used for reporting.
var Stages = []string{StageParse, StageView, StageValidate}

// Adapter normalizes one candidate implementation into the harness's
// uniform call shape so it can be measured like any other.
type Adapter interface {
	Name() string

	// Run measures the implementation against one workload. It never
	// returns an error: every fault is contained and recorded as an
	// unavailable stage in the Result.
	Run(ctx context.Context, w workload.Workload) Result
}

// Result is the ordered per-stage outcome of one adapter on one workload.
type Result struct {
	Adapter  string          `json:"adapter"`
	Workload string          `json:"workload"`
	Stages   []timing.Result `json:"stages"`
}

// Stage looks up a stage result by name.
func (r Result) Stage(name string) (timing.Result, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return timing.Result{}, false
}

// AllFailed reports whether no stage produced a usable measurement.
func (r Result) AllFailed() bool {
	for _, s := range r.Stages {
		if s.OK() && s.Available() {
			return false
		}
	}
	return true
}
