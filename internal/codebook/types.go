// Package codebook implements §4.G/§4.H: the rate allocator that builds, for
// every column and left context, a pair of Lloyd–Max codebooks bracketing a
// rate target (the "key algorithm"), and the text file format that
// serializes the result.
package codebook

import (
	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/quantize"
)

// sentinelContext is the single left-context value column 0 uses — there is
// no real previous column, so every line starts from the same context.
const sentinelContext = 0

// Entry is a codebook pair: the §4.G "lo" and "hi" quantizers bracketing the
// column's rate target, plus the mixing weight Ratio (α) that §4.K's choose
// uses to pick between them, and Ratio's 8-bit quantized form for
// serialization.
type Entry struct {
	Lo, Hi  *quantize.Quantizer
	Ratio   float64
	RatioQ8 uint8
}

// Column holds one column's conditional-quantizer list: the union alphabet
// of left contexts this column supports, and one Entry per context in it.
type Column struct {
	InputUnion *alphabet.Alphabet
	entries    map[int]*Entry // keyed by context symbol
}

// Entry returns the (lo,hi,ratio) triple stored for left-context ctx, or nil
// if ctx is not in this column's input union.
func (c *Column) Entry(ctx int) *Entry { return c.entries[ctx] }

// Set is one cluster's conditional-quantizer list: one Column per column,
// all sharing the same input alphabet.
type Set struct {
	Columns []*Column
}

// Codebook is the full file: every cluster's Set, plus the header fields
// that go in the codebook file's first line.
type Codebook struct {
	Rate         float64 // `comp`: the global bits-per-symbol target design was run at
	InputSize    int     // N: size of the original quality alphabet
	Columns      int
	Seed         uint32 // well_seed_u32; derived via internal/prng.DeriveSeed after encoding
	Sets         []*Set // one per cluster, len == ClusterCount
}

// ClusterCount returns the number of clusters this codebook covers.
func (cb *Codebook) ClusterCount() int { return len(cb.Sets) }
