package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogSinkRateLimits(t *testing.T) {
	s := NewStdLogSink(3)
	for i := 0; i < 10; i++ {
		s.Warnf("extreme_elevation", "elevation %d exceeded bound", i)
	}
	assert.EqualValues(t, 10, s.Count("extreme_elevation"))
}

func TestStdLogSinkCountsIndependentlyPerCounter(t *testing.T) {
	s := NewStdLogSink(5)
	s.Warnf("a", "x")
	s.Warnf("a", "x")
	s.Warnf("b", "y")
	assert.EqualValues(t, 2, s.Count("a"))
	assert.EqualValues(t, 1, s.Count("b"))
	assert.EqualValues(t, 0, s.Count("c"))
}
