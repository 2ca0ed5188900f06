package quantize

import (
	"math"

	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/distortion"
)

// MaxIter caps the Lloyd–Max fixed-point iteration (§4.E).
const MaxIter = 25

// Designer builds quantizers via Lloyd–Max alternation. It owns reusable
// scratch buffers (§9: "stack-allocated scratch... maps to a reused
// per-thread scratch buffer allocated once at designer construction") sized
// to the largest alphabet the caller will ever design for, so repeated
// Design calls during codebook generation (one per column per context) don't
// allocate.
type Designer struct {
	bounds          []int
	reconstruction  []int
	nextReconstruct []int
}

// NewDesigner allocates a Designer whose scratch buffers fit designs of up
// to maxStates states (maxStates regions, maxStates+1 bounds).
func NewDesigner(maxStates int) *Designer {
	return &Designer{
		bounds:          make([]int, maxStates+1),
		reconstruction:  make([]int, maxStates),
		nextReconstruct: make([]int, maxStates),
	}
}

// Design builds a quantizer with at most states distinct reconstructions for
// pmf under dist, following §4.E's algorithm, and returns the achieved
// expected distortion.
func (d *Designer) Design(pmf *alphabet.PMF, dist *distortion.Table, states int) (*Quantizer, float64) {
	pmf.Normalize()
	n := pmf.Alphabet.Size()

	if states >= n {
		states = n
	}
	if states <= 1 {
		return d.designSingleState(pmf, dist)
	}

	bounds := d.bounds[:states+1]
	recon := d.reconstruction[:states]

	bounds[0] = 0
	bounds[states] = n
	for j := 1; j < states; j++ {
		bounds[j] = (j * n) / states
	}
	for j := 0; j < states; j++ {
		recon[j] = (bounds[j] + bounds[j+1] - 1) / 2
	}

	changed := true
	for iter := 0; changed && iter < MaxIter; iter++ {
		changed = false

		// Adjust reconstruction points for fixed bounds.
		for j := 0; j < states; j++ {
			if bounds[j] >= bounds[j+1] {
				continue
			}
			minMSE := math.MaxFloat64
			minR := bounds[j]
			for r := bounds[j]; r < bounds[j+1]; r++ {
				mse := 0.0
				for i := bounds[j]; i < bounds[j+1]; i++ {
					mse += pmf.ProbabilityAt(i) * dist.D(i, r)
				}
				if mse < minMSE {
					minMSE = mse
					minR = r
				}
			}
			if minR != recon[j] {
				changed = true
				recon[j] = minR
			}
		}

		// Adjust bounds for fixed reconstruction points.
		r := 0
		for j := 1; j < n-1 && r < states-1; j++ {
			mse := dist.D(j, recon[r])
			next := dist.D(j, recon[r+1])
			if next < mse {
				r++
				bounds[r] = j
			}
		}
	}

	return d.finish(pmf, dist, bounds, recon)
}

// designSingleState short-circuits S=1 to the PMF's distortion-minimizing
// reconstruction, per §4.E's edge case.
func (d *Designer) designSingleState(pmf *alphabet.PMF, dist *distortion.Table) (*Quantizer, float64) {
	n := pmf.Alphabet.Size()
	bestR, bestMSE := 0, math.MaxFloat64
	for r := 0; r < n; r++ {
		mse := 0.0
		for i := 0; i < n; i++ {
			mse += pmf.ProbabilityAt(i) * dist.D(i, r)
		}
		if mse < bestMSE {
			bestMSE = mse
			bestR = r
		}
	}
	q := make([]int, n)
	for i := range q {
		q[i] = bestR
	}
	symbol := pmf.Alphabet.Symbol(bestR)
	return &Quantizer{
		Input:  pmf.Alphabet,
		Output: alphabet.FromSymbols([]int{symbol}),
		q:      reconstructSymbols(pmf.Alphabet, q),
	}, bestMSE
}

// finish builds the Quantizer's per-position symbol map from the converged
// bounds/reconstruction arrays, dropping any region that collapsed to empty
// (§4.E edge case: "If a region becomes empty... it is dropped and the
// output alphabet contracts").
func (d *Designer) finish(pmf *alphabet.PMF, dist *distortion.Table, bounds, recon []int) (*Quantizer, float64) {
	n := pmf.Alphabet.Size()
	q := make([]int, n)
	states := len(recon)
	usedSymbols := make([]int, 0, states)
	for j := 0; j < states; j++ {
		if bounds[j] >= bounds[j+1] {
			continue // empty region: dropped
		}
		usedSymbols = append(usedSymbols, pmf.Alphabet.Symbol(recon[j]))
		for i := bounds[j]; i < bounds[j+1]; i++ {
			q[i] = recon[j]
		}
	}

	mse := 0.0
	for j := 0; j < states; j++ {
		for i := bounds[j]; i < bounds[j+1]; i++ {
			mse += dist.D(i, recon[j]) * pmf.ProbabilityAt(i)
		}
	}

	return &Quantizer{
		Input:  pmf.Alphabet,
		Output: alphabet.FromSymbols(usedSymbols),
		q:      reconstructSymbols(pmf.Alphabet, q),
	}, mse
}

// reconstructSymbols converts a per-position reconstruction array (values
// are alphabet positions) into one keyed by reconstruction symbol codes.
func reconstructSymbols(a *alphabet.Alphabet, positionMap []int) []int {
	out := make([]int, len(positionMap))
	for i, pos := range positionMap {
		out[i] = a.Symbol(pos)
	}
	return out
}
