package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsAccumulates(t *testing.T) {
	s := NewStats()
	s.AddObject(8, 12)
	s.AddObject(100, 50)

	assert.Equal(t, uint32(2), s.Objects)
	assert.Equal(t, uint32(108), s.Vertices)
	assert.Equal(t, uint32(62), s.Triangles)

	s.Stop()
	first := s.Elapsed
	assert.Greater(t, first.Nanoseconds(), int64(0))

	// A second Stop does not restart the clock.
	s.Stop()
	assert.Equal(t, first, s.Elapsed)
}
