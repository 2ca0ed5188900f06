// Package condpmf implements §4.F: a single training-corpus scan that builds,
// for every column c>0, the conditional PMF P(x_c | x_{c-1}) indexed by the
// previous column's symbol, plus column 0's marginal, plus a per-column
// marginal PMF used by the rate allocator to bracket rate targets.
package condpmf

import "github.com/iochoa/qvz/internal/alphabet"

// Table holds the conditional-PMF chain for one cluster's training lines.
type Table struct {
	Alphabet *alphabet.Alphabet
	Columns  int

	col0       *alphabet.PMF   // column 0's marginal
	conditional [][]*alphabet.PMF // conditional[c][prevSymbolPosition], c in 1..Columns-1
	marginal   []*alphabet.PMF // per-column marginal, index 0..Columns-1
}

// New allocates an empty Table over the given alphabet and column count.
func New(a *alphabet.Alphabet, columns int) *Table {
	t := &Table{Alphabet: a, Columns: columns}
	t.col0 = alphabet.NewPMF(a)
	t.conditional = make([][]*alphabet.PMF, columns)
	for c := 1; c < columns; c++ {
		row := make([]*alphabet.PMF, a.Size())
		for i := range row {
			row[i] = alphabet.NewPMF(a)
		}
		t.conditional[c] = row
	}
	t.marginal = make([]*alphabet.PMF, columns)
	return t
}

// Observe scans one training line, incrementing column 0's marginal and
// every column c>0's P(x_c | x_{c-1}) conditional row.
func (t *Table) Observe(line []int) {
	if len(line) != t.Columns {
		return
	}
	t.col0.Add(line[0], 1)
	for c := 1; c < t.Columns; c++ {
		prevPos, ok := t.Alphabet.Position(line[c-1])
		if !ok {
			continue
		}
		t.conditional[c][prevPos].Add(line[c], 1)
	}
}

// Finalize normalizes every conditional row and computes the per-column
// marginal PMFs as a weighted sum of conditional rows, using the previous
// column's marginal as the weight vector, proceeding left-to-right — per
// §4.F ("Marginal PMFs per column are accumulated as a weighted sum of
// conditional rows using the previous column's marginal as weights").
// It must be called once, after all training lines have been Observe'd and
// before the table is used for codebook generation.
func (t *Table) Finalize() {
	t.col0.Normalize()
	t.marginal[0] = t.col0

	for c := 1; c < t.Columns; c++ {
		for _, row := range t.conditional[c] {
			row.Normalize()
		}
		t.marginal[c] = t.accumulateMarginal(c)
	}
}

func (t *Table) accumulateMarginal(c int) *alphabet.PMF {
	out := alphabet.NewPMF(t.Alphabet)
	prevMarginal := t.marginal[c-1]
	for prevPos := 0; prevPos < t.Alphabet.Size(); prevPos++ {
		w := prevMarginal.ProbabilityAt(prevPos)
		if w == 0 {
			continue
		}
		row := t.conditional[c][prevPos]
		for pos, sym := range t.Alphabet.Symbols() {
			out.Add(sym, w*row.ProbabilityAt(pos))
		}
	}
	out.Normalize()
	return out
}

// Column0Marginal returns column 0's marginal PMF.
func (t *Table) Column0Marginal() *alphabet.PMF { return t.col0 }

// Marginal returns column c's marginal PMF (valid after Finalize).
func (t *Table) Marginal(c int) *alphabet.PMF { return t.marginal[c] }

// Conditional returns P(x_c | prev) for column c>0. If prev was never
// observed as a left context, the returned PMF's Synthetic() is true (an
// empty context, §7's EmptyContext).
func (t *Table) Conditional(c int, prev int) *alphabet.PMF {
	pos, ok := t.Alphabet.Position(prev)
	if !ok {
		p := alphabet.NewPMF(t.Alphabet)
		p.Normalize()
		return p
	}
	return t.conditional[c][pos]
}
