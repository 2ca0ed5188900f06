package qvz

import (
	"github.com/pkg/errors"

	"github.com/iochoa/qvz/internal/codebook"
	"github.com/iochoa/qvz/internal/distortion"
	"github.com/iochoa/qvz/internal/rangecoding"
	"github.com/iochoa/qvz/internal/trace"
)

// Encoder drives §4.K's encode-side per-line state machine: a cluster id,
// then column 0 under the sentinel context, then columns 1..C-1 each under
// the previous column's reconstruction, arithmetic-coding the state index
// of whichever quantizer the PRNG selected.
type Encoder struct {
	*state
	rc   *rangecoding.Encoder
	dist *distortion.Table
}

// NewEncoder builds an Encoder over cb, writing into buf — sized by the
// caller for the worst case, since the arithmetic coder cannot grow its
// output buffer mid-stream. dist, if non-nil, is used only to accumulate
// Stats().MeanDistortion; it has no effect on the encoded bytes. tr is an
// optional diagnostic session; pass nil to disable it.
func NewEncoder(cb *codebook.Codebook, buf []byte, dist *distortion.Table, tr *trace.Session) *Encoder {
	rc := &rangecoding.Encoder{}
	rc.Init(buf)
	return &Encoder{state: newState(cb, tr), rc: rc, dist: dist}
}

// EncodeLine encodes one record: a cluster id plus exactly Columns quality
// symbols, already offset-corrected to 0..N-1 per §6's line-iterator
// contract.
func (e *Encoder) EncodeLine(cluster int, symbols []int) error {
	set, err := e.clusterSet(cluster)
	if err != nil {
		return err
	}
	if len(symbols) != e.columns {
		return errors.Wrapf(ErrColumnMismatch, "got %d symbols, want %d", len(symbols), e.columns)
	}

	clusterModel := e.bank.Cluster()
	fl, fh, ft := clusterModel.Bracket(cluster)
	e.rc.Encode(fl, fh, ft)
	clusterModel.Step(cluster)

	prev := sentinelContext
	lineDistortion := 0.0
	for c, x := range symbols {
		entry, err := contextEntry(set.Columns[c], prev)
		if err != nil {
			return errors.Wrapf(err, "column %d context %d", c, prev)
		}
		q := chooseQuantizer(entry, e.rng)
		v := q.Apply(x)
		idx, err := q.StateIndex(v)
		if err != nil {
			return errors.Wrapf(err, "column %d", c)
		}

		model := e.bank.Context(cluster, c, prev, modelStates(entry))
		fl, fh, ft := model.Bracket(idx)
		e.rc.Encode(fl, fh, ft)
		model.Step(idx)

		d := 0.0
		if e.dist != nil {
			d = e.dist.D(x, v)
			lineDistortion += d
		}
		prev = v
	}
	if e.trace != nil {
		e.trace.Record(trace.Event{Line: e.stats.Lines(), Cluster: cluster, Distortion: lineDistortion})
	}
	e.stats.observe(lineDistortion)
	return nil
}

// Flush finalizes the arithmetic-coded stream and returns the encoded
// bytes. The Encoder must not be reused afterward.
func (e *Encoder) Flush() ([]byte, error) {
	out := e.rc.Flush()
	if e.rc.Err() {
		return nil, ErrIO
	}
	return out, nil
}

// Decoder drives §4.K's decode-side mirror of Encoder: the same cluster id
// and per-column context rule, with the final symbol of the final line
// consumed via LastSymbol instead of Update (§4.K's terminal-handling
// asymmetry, which avoids a decode underrun past end of stream).
type Decoder struct {
	*state
	rc *rangecoding.Decoder
}

// NewDecoder builds a Decoder over cb, reading from buf. tr is an optional
// diagnostic session; pass nil to disable it.
func NewDecoder(cb *codebook.Codebook, buf []byte, tr *trace.Session) *Decoder {
	rc := &rangecoding.Decoder{}
	rc.Init(buf)
	return &Decoder{state: newState(cb, tr), rc: rc}
}

// DecodeLine decodes one record, returning the reconstructed cluster id and
// Columns reconstruction symbols. last must be true only for the stream's
// final line, so that line's final column is consumed with LastSymbol
// instead of Update; passing true early corrupts every subsequent read.
//
// Decode has no original symbol to compare against, so Stats().Lines()
// counts lines decoded here but Stats().MeanDistortion() stays 0 — that
// bookkeeping only has meaning on the Encoder side.
func (d *Decoder) DecodeLine(last bool) (cluster int, symbols []int, err error) {
	clusterModel := d.bank.Cluster()
	value := d.rc.Decode(clusterModel.Total())
	cluster, fl, fh, ft := clusterModel.Find(value)
	d.rc.Update(fl, fh, ft)
	clusterModel.Step(cluster)

	set, err := d.clusterSet(cluster)
	if err != nil {
		return 0, nil, err
	}

	symbols = make([]int, d.columns)
	prev := sentinelContext
	for c := 0; c < d.columns; c++ {
		entry, err := contextEntry(set.Columns[c], prev)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "column %d context %d", c, prev)
		}
		q := chooseQuantizer(entry, d.rng)
		model := d.bank.Context(cluster, c, prev, modelStates(entry))

		value := d.rc.Decode(model.Total())
		idx, fl, fh, ft := model.Find(value)
		if last && c == d.columns-1 {
			d.rc.LastSymbol(fl, fh, ft)
		} else {
			d.rc.Update(fl, fh, ft)
		}
		model.Step(idx)

		v := q.Output.Symbol(idx)
		symbols[c] = v
		prev = v
	}
	if d.trace != nil {
		d.trace.Record(trace.Event{Line: d.stats.Lines(), Cluster: cluster})
	}
	d.stats.observe(0)
	return cluster, symbols, nil
}
