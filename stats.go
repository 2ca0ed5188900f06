package qvz

// Stats accumulates per-line distortion statistics across one Encoder or
// Decoder run. The zero value is empty and ready to use.
type Stats struct {
	lines           int
	totalDistortion float64
}

func (s *Stats) observe(distortion float64) {
	s.lines++
	s.totalDistortion += distortion
}

// Lines returns the number of lines accounted for so far.
func (s Stats) Lines() int { return s.lines }

// MeanDistortion returns the running mean per-line distortion accumulated
// so far, or 0 if no lines have been processed yet. Only Encoder populates
// this meaningfully — see Decoder.DecodeLine.
func (s Stats) MeanDistortion() float64 {
	if s.lines == 0 {
		return 0
	}
	return s.totalDistortion / float64(s.lines)
}
