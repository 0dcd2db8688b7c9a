package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsAfterInterval(t *testing.T) {
	p := NewProfilerWithInterval(time.Hour)
	assert.False(t, p.Tick(3, 30))
	assert.Equal(t, 3, p.poseCount)
	assert.Equal(t, 30, p.boneCount)

	p.lastTime = time.Now().Add(-2 * time.Hour)
	assert.True(t, p.Tick(1, 10))
	assert.Zero(t, p.passCount, "counters reset after logging")
	assert.Zero(t, p.poseCount)
	assert.Zero(t, p.boneCount)
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler().updateInterval)
	assert.Equal(t, time.Second, NewProfilerWithInterval(-1).updateInterval)
}
