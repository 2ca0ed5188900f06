// Package prng implements §4.C: a WELL-class pseudorandom generator with a
// fixed, codebook-derived seed, producing results that are bit-identical
// across platforms given the same seed. Encoder and decoder each own one
// instance and must advance it with exactly the same sequence of NextUniform
// calls (§5) — there is no other synchronization between them for codebook
// selection.
package prng

// stateWords is WELL512's internal state size.
const stateWords = 16

// WELL512 is a period-2^512 WELL ("Well Equidistributed Long-period Linear")
// generator. Unlike a Mersenne Twister or xorshift it avoids the weak
// low-order-bit correlations that matter when the output feeds a binary
// accept/reject decision (§4.K's choose), at the cost of one extra word of
// state shuffling per draw.
type WELL512 struct {
	state [stateWords]uint32
	index uint32
}

// NewFromSeed builds a generator from the codebook's 32-bit seed field,
// expanding it into WELL512's full internal state with a SplitMix32
// stream — deterministic and platform-independent, per §4.C.
func NewFromSeed(seed uint32) *WELL512 {
	w := &WELL512{}
	sm := seed
	for i := 0; i < stateWords; i++ {
		sm += 0x9e3779b9
		z := sm
		z = (z ^ (z >> 16)) * 0x85ebca6b
		z = (z ^ (z >> 13)) * 0xc2b2ae35
		z = z ^ (z >> 16)
		w.state[i] = z
	}
	return w
}

// NextUint32 advances the generator and returns its next raw 32-bit output.
func (w *WELL512) NextUint32() uint32 {
	a := w.state
	idx := w.index

	v0 := a[idx]
	vM1 := a[(idx+13)%stateWords]
	vM2 := a[(idx+9)%stateWords]
	vM3 := a[(idx+5)%stateWords]

	z0 := vM1
	z1 := v0 ^ (v0 << 16) ^ vM1 ^ (vM1 << 15)
	z2 := vM2 ^ (vM2 >> 11)
	z3 := z1 ^ z2

	w.state[idx] = z3
	newIdx := (idx + stateWords - 1) % stateWords
	w.state[newIdx] = z0 ^ (z0<<2)&0xfffffffe ^ (z1<<18)&0xfffe0000 ^ z2 ^ (z2<<28)&0xf0000000 ^ vM3
	w.index = newIdx

	return w.state[newIdx]
}

// NextUniform returns the next draw as a real in [0,1), built from the top
// 53 bits worth of entropy two 32-bit draws provide so the result has full
// float64 mantissa precision.
func (w *WELL512) NextUniform() float64 {
	hi := w.NextUint32()
	lo := w.NextUint32()
	const mantissaBits = 53
	combined := (uint64(hi) << 21) ^ uint64(lo>>11)
	combined &= (1 << mantissaBits) - 1
	return float64(combined) / float64(uint64(1)<<mantissaBits)
}
