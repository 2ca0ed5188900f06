// Package quantize implements §4.D/§4.E: the Quantizer type and the
// Lloyd–Max designer that builds one from a PMF, a distortion table, and a
// target state count.
package quantize

import (
	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/errs"
)

// Quantizer maps every input symbol to a reconstruction symbol. It is
// immutable once built by Design. The output alphabet equals {q[i]} with
// duplicates removed and positions re-indexed, per §3.
type Quantizer struct {
	Input  *alphabet.Alphabet
	Output *alphabet.Alphabet
	q      []int // dense position i (in Input) -> reconstruction symbol
}

// Apply returns the reconstruction symbol for inputSymbol.
func (qt *Quantizer) Apply(inputSymbol int) int {
	pos, ok := qt.Input.Position(inputSymbol)
	if !ok {
		return inputSymbol
	}
	return qt.q[pos]
}

// StateIndex returns the position of reconstruction within the quantizer's
// output alphabet — the value the arithmetic coder actually encodes. It
// returns ErrInconsistentAlphabet if reconstruction is not producible by
// this quantizer, which §4.D calls out as "should be unreachable if data is
// consistent".
func (qt *Quantizer) StateIndex(reconstruction int) (int, error) {
	pos, ok := qt.Output.Position(reconstruction)
	if !ok {
		return 0, errs.ErrInconsistentAlphabet
	}
	return pos, nil
}

// States returns the number of distinct reconstructions this quantizer
// actually uses — may be less than the S it was designed for if a region
// collapsed to empty during bound adjustment.
func (qt *Quantizer) States() int { return qt.Output.Size() }

// Identity builds the passthrough quantizer §4.G and §7's EmptyContext
// recovery use for a context that was never observed in training: every
// input symbol reconstructs as itself.
func Identity(a *alphabet.Alphabet) *Quantizer {
	q := make([]int, a.Size())
	for i, s := range a.Symbols() {
		q[i] = s
	}
	return &Quantizer{Input: a, Output: a, q: q}
}

// Constant builds the single-reconstruction quantizer §7's RateInfeasible
// recovery uses: every input symbol reconstructs as the fixed symbol r.
func Constant(a *alphabet.Alphabet, r int) *Quantizer {
	q := make([]int, a.Size())
	for i := range q {
		q[i] = r
	}
	return &Quantizer{Input: a, Output: alphabet.FromSymbols([]int{r}), q: q}
}

// Codes returns the quantizer's per-input-position reconstruction-symbol
// array, in Input's dense position order — the form the codebook text
// format (§6) serializes one line of. The caller must not mutate it.
func (qt *Quantizer) Codes() []int { return qt.q }

// FromCodes rebuilds a Quantizer from a raw per-input-position
// reconstruction array, the form the codebook text format (§6) stores one
// line of. It is Design's inverse: no Lloyd–Max work happens here, it just
// reconstructs the Quantizer a prior Design call already computed.
func FromCodes(input *alphabet.Alphabet, codes []int) *Quantizer {
	q := make([]int, len(codes))
	copy(q, codes)
	return &Quantizer{Input: input, Output: alphabet.FromSymbols(codes), q: q}
}

// ApplyToPMF computes the output PMF produced when input symbols drawn from
// in are passed through qt — i.e. it sums together input probabilities that
// map to the same output, over qt.Output. This is the corrected semantics of
// the original source's apply_quantizer: §9 notes the original wrote into
// output[q->q[i]] (indexing the weight array directly with a *symbol*,
// aliasing unrelated PMF slots for any alphabet that isn't a trivial
// identity) where the intended target was output->pmf[q->q[i]] (indexing by
// dense *position* within the output alphabet, via ProbabilityAt/Add on the
// re-indexed alphabet). This implementation always does the latter.
func ApplyToPMF(qt *Quantizer, in *alphabet.PMF) *alphabet.PMF {
	out := alphabet.NewPMF(qt.Output)
	for i, s := range qt.Input.Symbols() {
		r := qt.q[i]
		out.Add(r, in.ProbabilityAt(i))
		_ = s
	}
	out.Normalize()
	return out
}
