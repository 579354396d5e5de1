package timing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasure_Success(t *testing.T) {
	res := Measure("parse", func() (any, error) {
		time.Sleep(5 * time.Millisecond)
		return 42, nil
	})

	assert.True(t, res.OK())
	assert.True(t, res.Available())
	assert.Equal(t, "parse", res.Stage)
	assert.Equal(t, 42, res.Value)
	assert.GreaterOrEqual(t, res.DurationMs, 0.0)
	assert.False(t, math.IsNaN(res.DurationMs))
}

func TestMeasure_Error(t *testing.T) {
	res := Measure("validate", func() (any, error) {
		return nil, errors.New("bad schema")
	})

	assert.False(t, res.OK())
	// Elapsed time up to the fault is still reported.
	assert.True(t, res.Available())
	assert.GreaterOrEqual(t, res.DurationMs, 0.0)
	assert.Equal(t, "bad schema", res.Detail)
}

func TestMeasure_PanicDoesNotEscape(t *testing.T) {
	assert.NotPanics(t, func() {
		res := Measure("view", func() (any, error) {
			panic("boom")
		})
		assert.False(t, res.OK())
		assert.True(t, res.Available())
		assert.Contains(t, res.Detail, "boom")
	})
}

func TestSkipped(t *testing.T) {
	res := Skipped("validate", "parse failed")

	assert.False(t, res.OK())
	assert.False(t, res.Available())
	assert.Equal(t, Unavailable, res.DurationMs)
	assert.Contains(t, res.Detail, "parse failed")
}

func TestFailed(t *testing.T) {
	res := Failed("validate", errors.New("timed out"))

	assert.False(t, res.OK())
	assert.Equal(t, Unavailable, res.DurationMs)
	assert.Equal(t, "timed out", res.Detail)
}
