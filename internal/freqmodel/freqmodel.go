// Package freqmodel implements §4.I: a per-(cluster,column,context) adaptive
// symbol-frequency table with periodic rescale, and the cumulative-frequency
// bracket lookup the range coder (internal/rangecoding) needs to Encode or
// Decode a symbol under it.
package freqmodel

// RMax is the default rescale threshold: once a model's total count would
// reach this, every count is halved (rounding up) before the step that
// would have crossed it. §4.I's invariant is that total count stays
// strictly less than RMax at the start of every coding step.
const RMax = 1 << 14

// Model is one adaptive frequency table over a fixed number of states.
// Every count starts at 1, so State-space symbols that haven't been seen
// yet still get a nonzero probability — necessary for an adaptive coder
// since a never-seen symbol with zero frequency couldn't be encoded at all.
type Model struct {
	counts []uint32
	total  uint32
	rmax   uint32
}

// New allocates a Model over `states` symbols with the given rescale
// threshold.
func New(states int, rmax uint32) *Model {
	m := &Model{counts: make([]uint32, states), rmax: rmax}
	for i := range m.counts {
		m.counts[i] = 1
	}
	m.total = uint32(states)
	return m
}

// States returns the number of symbols this model covers.
func (m *Model) States() int { return len(m.counts) }

// Total returns the current sum of all counts (the ft the range coder needs).
func (m *Model) Total() uint32 { return m.total }

// Bracket returns the cumulative-frequency interval [fl, fh) for symbol,
// plus the model's total ft, suitable for rangecoding.Encoder.Encode or for
// comparing against rangecoding.Decoder.Decode's returned value.
func (m *Model) Bracket(symbol int) (fl, fh, ft uint32) {
	for i := 0; i < symbol; i++ {
		fl += m.counts[i]
	}
	fh = fl + m.counts[symbol]
	ft = m.total
	return
}

// Find returns the symbol whose cumulative interval contains value (as
// returned by rangecoding.Decoder.Decode), plus its bracket.
func (m *Model) Find(value uint32) (symbol int, fl, fh, ft uint32) {
	var cum uint32
	for i, c := range m.counts {
		if value < cum+c {
			return i, cum, cum + c, m.total
		}
		cum += c
	}
	last := len(m.counts) - 1
	return last, cum - m.counts[last], cum, m.total
}

// Step increments symbol's count, rescaling first if the increment would
// reach rmax — preserving the invariant that total count stays strictly
// below rmax at the start of every step, and that every count stays >= 1.
func (m *Model) Step(symbol int) {
	if m.total+1 >= m.rmax {
		m.rescale()
	}
	m.counts[symbol]++
	m.total++
}

func (m *Model) rescale() {
	var total uint32
	for i, c := range m.counts {
		half := (c + 1) / 2 // round up so no count reaches 0
		m.counts[i] = half
		total += half
	}
	m.total = total
}
