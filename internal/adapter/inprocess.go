package adapter

import (
	"context"

	"lmlbench/internal/timing"
	"lmlbench/internal/workload"
)

// Engine is the contract an in-process library must expose to be
// benchmarked: parse the schema text, build an introspection view over
// the parsed schema, and validate a document against a target class.
// Any error type is acceptable; the harness only needs it catchable.
type Engine interface {
	Parse(schemaText string) (any, error)
	BuildView(schema any) (any, error)
	Validate(data map[string]any, schema any, targetClass string) (any, error)
}

// InProcess measures a library implementation by calling its three steps
// directly, each wrapped individually so a later-stage fault does not
// invalidate earlier timings.
type InProcess struct {
	name   string
	engine Engine
}

// NewInProcess returns an adapter over the given engine.
func NewInProcess(name string, engine Engine) *InProcess {
	return &InProcess{name: name, engine: engine}
}

func (a *InProcess) Name() string { return a.name }

// Run measures parse, view and validate in sequence. A failed stage marks
// every downstream stage skipped; there are no retries.
func (a *InProcess) Run(_ context.Context, w workload.Workload) Result {
	res := Result{Adapter: a.name, Workload: w.Name}

	parse := timing.Measure(StageParse, func() (any, error) {
		return a.engine.Parse(w.Schema)
	})
	res.Stages = append(res.Stages, parse)
	if !parse.OK() {
		res.Stages = append(res.Stages,
			timing.Skipped(StageView, "parse failed"),
			timing.Skipped(StageValidate, "parse failed"))
		return res
	}

	view := timing.Measure(StageView, func() (any, error) {
		return a.engine.BuildView(parse.Value)
	})
	res.Stages = append(res.Stages, view)
	if !view.OK() {
		res.Stages = append(res.Stages, timing.Skipped(StageValidate, "view failed"))
		return res
	}

	validate := timing.Measure(StageValidate, func() (any, error) {
		return a.engine.Validate(w.Data, parse.Value, w.TargetClass)
	})
	res.Stages = append(res.Stages, validate)
	return res
}
