package core

import "time"

// Stats accumulates counters over a single export pass.
type Stats struct {
	Objects   uint32
	Triangles uint32
	Vertices  uint32

	started time.Time
	Elapsed time.Duration
}

func NewStats() *Stats {
	return &Stats{
		started: time.Now(),
	}
}

func (s *Stats) AddObject(vertexCount, triangleCount uint32) {
	s.Objects++
	s.Vertices += vertexCount
	s.Triangles += triangleCount
}

// Stop freezes the elapsed time. Safe to call more than once; the first
// call wins.
func (s *Stats) Stop() {
	if s.Elapsed == 0 {
		s.Elapsed = time.Since(s.started)
	}
}

func (s *Stats) ElapsedMS() float64 {
	return float64(s.Elapsed) / float64(time.Millisecond)
}
