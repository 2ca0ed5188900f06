// Package distortion implements §4.B: an immutable N×N cost matrix d(i,j)
// over the input alphabet, with d(i,i) = 0. It has no state beyond the
// matrix and is constructed once per run.
package distortion

import "math"

// Kind selects one of the enumerated distortion-table variants.
type Kind int

const (
	SquaredError Kind = iota
	AbsoluteError
	LogShiftedSquaredError
	UserTable
)

// Table is an immutable symmetric cost matrix over 0..N-1.
type Table struct {
	n int
	d []float64 // flattened N×N, row-major
}

// New builds a Table of the given kind over alphabet size n. UserTable must
// be built with FromMatrix instead; New panics if asked for it.
func New(kind Kind, n int) *Table {
	t := &Table{n: n, d: make([]float64, n*n)}
	var f func(i, j int) float64
	switch kind {
	case SquaredError:
		f = func(i, j int) float64 {
			diff := float64(i - j)
			return diff * diff
		}
	case AbsoluteError:
		f = func(i, j int) float64 { return math.Abs(float64(i - j)) }
	case LogShiftedSquaredError:
		f = func(i, j int) float64 {
			diff := float64(i - j)
			return math.Log1p(diff * diff)
		}
	default:
		panic("distortion: UserTable must be constructed with FromMatrix")
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			t.d[i*n+j] = f(i, j)
		}
	}
	return t
}

// FromMatrix builds a user-supplied distortion table. m must be square;
// FromMatrix forces the diagonal to zero regardless of m's contents, per
// §3's invariant d(i,i) = 0.
func FromMatrix(m [][]float64) *Table {
	n := len(m)
	t := &Table{n: n, d: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			t.d[i*n+j] = m[i][j]
		}
	}
	return t
}

// N returns the size of the alphabet the table was built over.
func (t *Table) N() int { return t.n }

// D returns d(i,j), the cost of reconstructing input symbol i as j.
func (t *Table) D(i, j int) float64 {
	if i == j {
		return 0
	}
	return t.d[i*t.n+j]
}
