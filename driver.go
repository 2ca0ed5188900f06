package qvz

import (
	"github.com/pkg/errors"

	"github.com/iochoa/qvz/internal/codebook"
	"github.com/iochoa/qvz/internal/freqmodel"
	"github.com/iochoa/qvz/internal/prng"
	"github.com/iochoa/qvz/internal/quantize"
	"github.com/iochoa/qvz/internal/trace"
)

// sentinelContext is column 0's left context. There is no real previous
// column there, so the codebook generator reserves this single value as
// the context every line's column 0 lookup uses (internal/codebook's
// Generate does the same on the design side).
const sentinelContext = 0

// state is the per-run data both Encoder and Decoder thread through §4.K's
// per-line loop: the codebook set to choose from, the adaptive frequency
// models, and the PRNG driving stochastic codebook selection. Per §5, the
// PRNG and frequency models are the only mutable state carried across
// lines besides the arithmetic coder's own range state.
type state struct {
	cb      *codebook.Codebook
	bank    *freqmodel.Bank
	rng     *prng.WELL512
	trace   *trace.Session
	stats   Stats
	columns int
}

func newState(cb *codebook.Codebook, tr *trace.Session) *state {
	return &state{
		cb:      cb,
		bank:    freqmodel.NewBank(cb.ClusterCount(), freqmodel.RMax),
		rng:     prng.NewFromSeed(cb.Seed),
		trace:   tr,
		columns: cb.Columns,
	}
}

// Stats returns the running statistics accumulated so far.
func (s *state) Stats() Stats { return s.stats }

func (s *state) clusterSet(cluster int) (*codebook.Set, error) {
	if cluster < 0 || cluster >= len(s.cb.Sets) {
		return nil, errors.Wrapf(ErrClusterRange, "cluster %d", cluster)
	}
	return s.cb.Sets[cluster], nil
}

// chooseQuantizer implements §4.K's choose: a PRNG draw decides between a context's
// lo and hi quantizers, weighted by the entry's mixing ratio — "hi if
// prng.next() < α(c,ctx) else lo".
func chooseQuantizer(entry *codebook.Entry, rng *prng.WELL512) *quantize.Quantizer {
	if rng.NextUniform() < entry.Ratio {
		return entry.Hi
	}
	return entry.Lo
}

// modelStates sizes a context's frequency model to cover whichever
// quantizer gets selected on a given line — lo and hi generally have
// different state counts, but one adaptive model is shared between both
// choices for a given (cluster,column,context).
func modelStates(entry *codebook.Entry) int {
	lo, hi := entry.Lo.States(), entry.Hi.States()
	if hi > lo {
		return hi
	}
	return lo
}

// contextEntry looks up a column's codebook entry for ctx, returning
// ErrInconsistentAlphabet (§7) if ctx is outside the column's stored input
// union — §8 invariant 4, "output-alphabet closure", is the decoder-side
// guarantee this check exists to enforce.
func contextEntry(col *codebook.Column, ctx int) (*codebook.Entry, error) {
	e := col.Entry(ctx)
	if e == nil {
		return nil, ErrInconsistentAlphabet
	}
	return e, nil
}
