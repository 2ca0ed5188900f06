// Package alphabet implements §4.A: the discrete-alphabet and PMF container
// shared by every other component. An Alphabet is an ordered finite set of
// symbol codes plus an inverse index from symbol to position; output
// alphabets are subsets of an input alphabet with positions reassigned
// densely.
package alphabet

import "golang.org/x/exp/slices"

// Alphabet is an ordered set of symbol codes. Symbols is always sorted and
// deduplicated; Position is its inverse.
type Alphabet struct {
	symbols  []int
	position map[int]int
}

// New builds an alphabet over 0..n-1.
func New(n int) *Alphabet {
	symbols := make([]int, n)
	position := make(map[int]int, n)
	for i := 0; i < n; i++ {
		symbols[i] = i
		position[i] = i
	}
	return &Alphabet{symbols: symbols, position: position}
}

// FromSymbols builds a dense alphabet from an arbitrary (possibly unsorted,
// possibly duplicated) set of symbols, re-indexing positions densely in
// ascending symbol order. This is how §3's "duplicates removed and positions
// re-indexed" invariant is realized for derived/union alphabets.
func FromSymbols(symbols []int) *Alphabet {
	dedup := slices.Clone(symbols)
	slices.Sort(dedup)
	dedup = slices.Compact(dedup)
	position := make(map[int]int, len(dedup))
	for i, s := range dedup {
		position[s] = i
	}
	return &Alphabet{symbols: dedup, position: position}
}

// Size returns the number of distinct symbols.
func (a *Alphabet) Size() int { return len(a.symbols) }

// Symbol returns the symbol code stored at position i.
func (a *Alphabet) Symbol(i int) int { return a.symbols[i] }

// Symbols returns the alphabet's symbols in ascending order. The caller must
// not mutate the returned slice.
func (a *Alphabet) Symbols() []int { return a.symbols }

// Position returns the dense position of symbol s and whether s belongs to
// the alphabet.
func (a *Alphabet) Position(s int) (int, bool) {
	p, ok := a.position[s]
	return p, ok
}

// Contains reports whether s is a member of the alphabet.
func (a *Alphabet) Contains(s int) bool {
	_, ok := a.position[s]
	return ok
}
