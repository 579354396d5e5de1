package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackStage(t *testing.T) {
	before := testutil.ToFloat64(stagesMeasured.WithLabelValues("native", "parse", "ok"))
	TrackStage("native", "parse", true)
	after := testutil.ToFloat64(stagesMeasured.WithLabelValues("native", "parse", "ok"))
	assert.Equal(t, before+1, after)

	beforeFailed := testutil.ToFloat64(stagesMeasured.WithLabelValues("external", "validate", "failed"))
	TrackStage("external", "validate", false)
	afterFailed := testutil.ToFloat64(stagesMeasured.WithLabelValues("external", "validate", "failed"))
	assert.Equal(t, beforeFailed+1, afterFailed)
}

func TestTrackRun(t *testing.T) {
	before := testutil.ToFloat64(runsCompleted)
	TrackRun()
	assert.Equal(t, before+1, testutil.ToFloat64(runsCompleted))
}
