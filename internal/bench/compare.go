package bench

// Regression is the per-stage change between two saved runs.
type Regression struct {
	Workload string
	Adapter  string
	Stage    string
	PrevMs   float64
	CurrMs   float64
	// DiffPercent is the percentage change, positive when slower.
	DiffPercent float64
}

// Slower reports whether the stage regressed beyond threshold percent.
func (r Regression) Slower(threshold float64) bool {
	return r.DiffPercent > threshold
}

// CompareRuns matches the current run's records against a previous run by
// (workload, adapter, stage) identity. Records missing from either side,
// or without usable measurements, are skipped; only comparable pairs
// yield entries.
func CompareRuns(prev, curr Run) []Regression {
	var out []Regression
	for _, c := range curr.Records {
		if !c.OK || c.DurationMs <= 0 {
			continue
		}
		p, ok := prev.Record(c.Workload, c.Adapter, c.Stage)
		if !ok || !p.OK || p.DurationMs <= 0 {
			continue
		}
		out = append(out, Regression{
			Workload:    c.Workload,
			Adapter:     c.Adapter,
			Stage:       c.Stage,
			PrevMs:      p.DurationMs,
			CurrMs:      c.DurationMs,
			DiffPercent: (c.DurationMs - p.DurationMs) / p.DurationMs * 100,
		})
	}
	return out
}
