package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	stagesMeasured = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lmlbench_stages_measured_total",
		Help: "Measured benchmark stages by adapter, stage and status.",
	}, []string{"adapter", "stage", "status"})

	runsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lmlbench_runs_total",
		Help: "Completed benchmark runs.",
	})
)

// TrackStage records one measured stage outcome.
func TrackStage(adapterName, stage string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	stagesMeasured.WithLabelValues(adapterName, stage, status).Inc()
}

// TrackRun records one completed benchmark run.
func TrackRun() {
	runsCompleted.Inc()
}

// StartMetricsServer starts a HTTP server exposing Prometheus metrics.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
