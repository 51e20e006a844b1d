package arthur

// Stats is a lightweight, always-available counter snapshot for a Writer or
// Reader, independent of the optional arthurmetrics/Prometheus wiring.
type Stats struct {
	FramesByType   map[FrameType]uint64
	BytesWritten   uint64
	BytesRead      uint64
	OverflowEvents uint64
}

func newStats() Stats {
	return Stats{FramesByType: make(map[FrameType]uint64)}
}

func (s *Stats) recordWrite(t FrameType, n int) {
	s.FramesByType[t]++
	s.BytesWritten += uint64(n)
}

func (s *Stats) recordRead(t FrameType, n int) {
	s.FramesByType[t]++
	s.BytesRead += uint64(n)
}

// clone returns a copy safe to hand to a caller.
func (s Stats) clone() Stats {
	cp := Stats{
		BytesWritten:   s.BytesWritten,
		BytesRead:      s.BytesRead,
		OverflowEvents: s.OverflowEvents,
		FramesByType:   make(map[FrameType]uint64, len(s.FramesByType)),
	}
	for k, v := range s.FramesByType {
		cp.FramesByType[k] = v
	}
	return cp
}
