package codebook

import (
	"math"

	"github.com/pkg/errors"

	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/condpmf"
	"github.com/iochoa/qvz/internal/distortion"
	"github.com/iochoa/qvz/internal/quantize"
	"github.com/iochoa/qvz/internal/trace"
)

// minContextWeight is the propagated-occurrence-probability floor a
// previous-column reconstruction symbol must clear to enter the next
// column's input union. A symbol at or below it gets no entry in that
// column at all — neither a Lloyd–Max pair nor a passthrough quantizer —
// even though it is present in the previous column's output alphabets, so
// a line that produces it has no entry to look up in the next column. The
// design note in the project's decision log explains why: §4.G's
// "propagate output PMF" step is otherwise only a bookkeeping aid, so this
// is where it earns its keep — contexts the mixture will essentially never
// produce don't get a dedicated (and noisy, near-zero training mass)
// Lloyd–Max pair.
const minContextWeight = 1e-9

// maxClusters caps the cluster count at the original codebook format's
// on-disk field width (codebook.h stores it as an unsigned 16-bit count).
const maxClusters = math.MaxUint16

// GenerateAll builds a full multi-cluster Codebook from one condpmf.Table
// per cluster. It does not fill in Seed — that depends on the serialized
// bytes and is derived by the caller (internal/prng.DeriveSeed) after
// Write produces the file body. It rejects more than maxClusters clusters.
// tr, if non-nil, receives a KindRateInfeasible/KindEmptyContext event (§7)
// every time bracket falls back to one of those recoveries; pass nil to
// disable it.
func GenerateAll(trainingByCluster []*condpmf.Table, dist *distortion.Table, rate float64, inputSize int, tr *trace.Session) (*Codebook, error) {
	if len(trainingByCluster) > maxClusters {
		return nil, errors.Errorf("codebook: %d clusters exceeds the %d-cluster limit", len(trainingByCluster), maxClusters)
	}
	cb := &Codebook{
		Rate:      rate,
		InputSize: inputSize,
		Sets:      make([]*Set, len(trainingByCluster)),
	}
	if len(trainingByCluster) > 0 {
		cb.Columns = trainingByCluster[0].Columns
	}
	for i, pmfs := range trainingByCluster {
		cb.Sets[i] = Generate(pmfs, dist, rate, i, tr)
	}
	return cb, nil
}

// Generate builds one cluster's conditional-quantizer list: a left-to-right
// pass over columns where, for every left context in the column's input
// union, a Lloyd–Max quantizer pair brackets the column's rate target
// (§4.G). Column rate targets are distributed proportional to each
// column's raw marginal entropy (§4.F) so columns carrying more
// information get a larger share of the rate budget, while the mean still
// equals rate — the allocation scheme §9 leaves as an implementation
// choice as long as that mean holds. cluster identifies this Set for
// tr's events; tr may be nil.
func Generate(pmfs *condpmf.Table, dist *distortion.Table, rate float64, cluster int, tr *trace.Session) *Set {
	columns := pmfs.Columns
	n := pmfs.Alphabet.Size()
	designer := quantize.NewDesigner(n)
	columnRate := allocateColumnRates(pmfs, rate)

	set := &Set{Columns: make([]*Column, columns)}
	weight := map[int]float64{sentinelContext: 1}

	for c := 0; c < columns; c++ {
		union := contextsFor(c, weight)
		col := &Column{InputUnion: union, entries: make(map[int]*Entry, union.Size())}

		var nextWeight map[int]float64
		if c+1 < columns {
			nextWeight = make(map[int]float64)
		}
		for _, ctx := range union.Symbols() {
			pmf := contextPMF(pmfs, c, ctx)
			entry := bracket(designer, dist, pmf, columnRate[c], tr, cluster, c, ctx)
			col.entries[ctx] = entry
			if nextWeight != nil {
				propagate(nextWeight, entry, pmf, weight[ctx])
			}
		}
		set.Columns[c] = col
		weight = nextWeight
	}
	return set
}

// allocateColumnRates distributes rate*columns bits across columns
// proportional to each column's marginal entropy, falling back to a flat
// allocation if every column's marginal is degenerate (entropy 0).
func allocateColumnRates(pmfs *condpmf.Table, rate float64) []float64 {
	columns := pmfs.Columns
	entropies := make([]float64, columns)
	sum := 0.0
	for c := 0; c < columns; c++ {
		h := pmfs.Marginal(c).Entropy()
		entropies[c] = h
		sum += h
	}
	out := make([]float64, columns)
	if sum <= 0 {
		for c := range out {
			out[c] = rate
		}
		return out
	}
	budget := rate * float64(columns)
	for c := range out {
		out[c] = budget * entropies[c] / sum
	}
	return out
}

// contextsFor returns column c's input union: the single sentinel context
// for column 0, or the set of previous-column reconstruction symbols whose
// propagated occurrence weight clears minContextWeight otherwise.
func contextsFor(c int, weight map[int]float64) *alphabet.Alphabet {
	if c == 0 {
		return alphabet.FromSymbols([]int{sentinelContext})
	}
	symbols := make([]int, 0, len(weight))
	for v, w := range weight {
		if w > minContextWeight {
			symbols = append(symbols, v)
		}
	}
	return alphabet.FromSymbols(symbols)
}

// contextPMF returns the conditional PMF P(x_c | ctx) a context's Lloyd–Max
// pair is designed against — column 0's marginal for c==0, since there is
// no real previous column there.
func contextPMF(pmfs *condpmf.Table, c, ctx int) *alphabet.PMF {
	if c == 0 {
		return pmfs.Column0Marginal()
	}
	return pmfs.Conditional(c, ctx)
}

// bracket implements §4.G step 3 and the §7 EmptyContext/RateInfeasible
// recovery paths: it finds the smallest state count s whose quantizer's
// output entropy meets target, brackets target between s-1 and s, and
// mixes them with the weight alpha that lands exactly on target. When no
// bracket is possible (an empty context, or a target no achievable
// quantizer reaches) it collapses to a single quantizer with Ratio 0 and,
// if tr is non-nil, records which recovery fired at (cluster, column,
// ctx).
func bracket(d *quantize.Designer, dist *distortion.Table, pmf *alphabet.PMF, target float64, tr *trace.Session, cluster, column, ctx int) *Entry {
	pmf.Normalize()
	if pmf.Synthetic() || target <= 0 {
		if tr != nil {
			tr.Record(trace.Event{Kind: trace.KindEmptyContext, Cluster: cluster, Column: column, Context: ctx})
		}
		q := quantize.Identity(pmf.Alphabet)
		return &Entry{Lo: q, Hi: q, Ratio: 0, RatioQ8: 0}
	}

	n := pmf.Alphabet.Size()
	quantAt := make(map[int]*quantize.Quantizer, n+1)
	entropyAt := make(map[int]float64, n+1)
	entropy := func(s int) float64 {
		if h, ok := entropyAt[s]; ok {
			return h
		}
		q, _ := d.Design(pmf, dist, s)
		quantAt[s] = q
		h := quantize.ApplyToPMF(q, pmf).Entropy()
		entropyAt[s] = h
		return h
	}

	lo, hi := 1, n
	for lo < hi {
		mid := (lo + hi) / 2
		if entropy(mid) >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	sHi := lo
	hHi := entropy(sHi)
	if hHi < target || sHi == 1 {
		// RateInfeasible (§7): even the highest-resolution bracket candidate
		// doesn't reach target, or there's nothing below it to bracket with.
		if tr != nil {
			tr.Record(trace.Event{Kind: trace.KindRateInfeasible, Cluster: cluster, Column: column, Context: ctx})
		}
		q := quantAt[sHi]
		if hHi == 0 {
			// No resolution yields positive entropy (a degenerate PMF): use a
			// constant quantizer on the distortion-minimizing symbol.
			single, _ := d.Design(pmf, dist, 1)
			q = quantize.Constant(pmf.Alphabet, single.Codes()[0])
		}
		return &Entry{Lo: q, Hi: q, Ratio: 0, RatioQ8: 0}
	}

	sLo := sHi - 1
	hLo := entropy(sLo)
	if hHi <= hLo {
		if tr != nil {
			tr.Record(trace.Event{Kind: trace.KindRateInfeasible, Cluster: cluster, Column: column, Context: ctx})
		}
		q := quantAt[sHi]
		return &Entry{Lo: q, Hi: q, Ratio: 0, RatioQ8: 0}
	}

	alpha := (target - hLo) / (hHi - hLo)
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return &Entry{
		Lo:      quantAt[sLo],
		Hi:      quantAt[sHi],
		Ratio:   alpha,
		RatioQ8: uint8(math.Round(alpha * 255)),
	}
}

// propagate implements §4.G step 5: it adds this context's contribution to
// the next column's working weight over produced reconstruction symbols,
// mixing the lo and hi quantizers' output PMFs by Ratio exactly as the
// stochastic choose at coding time will average out to over many lines.
func propagate(nextWeight map[int]float64, e *Entry, pmf *alphabet.PMF, ctxWeight float64) {
	if ctxWeight <= 0 {
		return
	}
	if e.Ratio < 1 {
		loPMF := quantize.ApplyToPMF(e.Lo, pmf)
		w := ctxWeight * (1 - e.Ratio)
		for _, v := range e.Lo.Output.Symbols() {
			nextWeight[v] += w * loPMF.Probability(v)
		}
	}
	if e.Ratio > 0 {
		hiPMF := quantize.ApplyToPMF(e.Hi, pmf)
		w := ctxWeight * e.Ratio
		for _, v := range e.Hi.Output.Symbols() {
			nextWeight[v] += w * hiPMF.Probability(v)
		}
	}
}
