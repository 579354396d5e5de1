package bench

import (
	"time"

	"lmlbench/internal/adapter"
)

// StageRecord is one flattened (workload, adapter, stage) measurement,
// the unit persisted to the history store.
type StageRecord struct {
	Workload   string  `json:"workload"`
	Adapter    string  `json:"adapter"`
	Stage      string  `json:"stage"`
	DurationMs float64 `json:"duration_ms"`
	OK         bool    `json:"ok"`
	Detail     string  `json:"detail,omitempty"`
}

// Run is one complete harness execution over all workloads and adapters.
type Run struct {
	ID        int64         `json:"id,omitempty"`
	Label     string        `json:"label,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Records   []StageRecord `json:"records"`
}

// Record looks up a stage record by identity.
func (r Run) Record(workloadName, adapterName, stage string) (StageRecord, bool) {
	for _, rec := range r.Records {
		if rec.Workload == workloadName && rec.Adapter == adapterName && rec.Stage == stage {
			return rec, true
		}
	}
	return StageRecord{}, false
}

// AllFailed reports whether no record holds a usable measurement.
func (r Run) AllFailed() bool {
	for _, rec := range r.Records {
		if rec.OK && rec.DurationMs >= 0 {
			return false
		}
	}
	return true
}

func flatten(results []adapter.Result) []StageRecord {
	var records []StageRecord
	for _, res := range results {
		for _, s := range res.Stages {
			records = append(records, StageRecord{
				Workload:   res.Workload,
				Adapter:    res.Adapter,
				Stage:      s.Stage,
				DurationMs: s.DurationMs,
				OK:         s.OK(),
				Detail:     s.Detail,
			})
		}
	}
	return records
}
