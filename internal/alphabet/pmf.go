package alphabet

// PMF is a vector of nonnegative weights over an Alphabet, per §3. It starts
// empty, is mutated by Add during a training scan, and is frozen by
// Normalize before it is used for quantizer design. When Normalized is true,
// the weights sum to 1 within floating tolerance.
type PMF struct {
	Alphabet   *Alphabet
	weights    []float64
	normalized bool
	synthetic  bool // true iff Normalize saw a zero total and emitted uniform weights
}

// NewPMF allocates an empty PMF over a.
func NewPMF(a *Alphabet) *PMF {
	return &PMF{Alphabet: a, weights: make([]float64, a.Size())}
}

// Add accumulates weight (typically 1, from a training-corpus count) onto
// symbol. It is only valid before Normalize is called.
func (p *PMF) Add(symbol int, weight float64) {
	pos, ok := p.Alphabet.Position(symbol)
	if !ok {
		return
	}
	p.weights[pos] += weight
	p.normalized = false
}

// Normalize divides every weight by the accumulated total. If the total is
// zero (the context was never observed in training), it instead sets every
// weight to 1/N and marks the PMF Synthetic — the allocator's signal to
// treat this context as empty and fall back to a passthrough quantizer
// (§4.G step 2, §7 EmptyContext).
func (p *PMF) Normalize() {
	if p.normalized {
		return
	}
	total := 0.0
	for _, w := range p.weights {
		total += w
	}
	if total == 0 {
		if n := len(p.weights); n > 0 {
			u := 1.0 / float64(n)
			for i := range p.weights {
				p.weights[i] = u
			}
		}
		p.synthetic = true
	} else {
		for i := range p.weights {
			p.weights[i] /= total
		}
	}
	p.normalized = true
}

// Synthetic reports whether Normalize fabricated a uniform distribution
// because no mass was ever added (an unobserved/empty context).
func (p *PMF) Synthetic() bool { return p.synthetic }

// Normalized reports whether the PMF's weights currently sum to 1.
func (p *PMF) Normalized() bool { return p.normalized }

// Probability returns the probability mass on symbol, implicitly normalizing
// the PMF first if it has not been normalized yet.
func (p *PMF) Probability(symbol int) float64 {
	if !p.normalized {
		p.Normalize()
	}
	pos, ok := p.Alphabet.Position(symbol)
	if !ok {
		return 0
	}
	return p.weights[pos]
}

// ProbabilityAt returns the probability mass at dense position i (already
// normalized). Quantizer design works in position space, not symbol space,
// so this is the hot-path accessor used by internal/quantize.
func (p *PMF) ProbabilityAt(i int) float64 {
	if !p.normalized {
		p.Normalize()
	}
	return p.weights[i]
}

// Entropy returns the Shannon entropy of the (implicitly normalized) PMF in
// bits, used by the rate allocator (§4.G) to bracket a column's rate target.
func (p *PMF) Entropy() float64 {
	if !p.normalized {
		p.Normalize()
	}
	h := 0.0
	for _, w := range p.weights {
		if w > 0 {
			h -= w * log2(w)
		}
	}
	return h
}
