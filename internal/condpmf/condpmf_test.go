package condpmf

import (
	"math"
	"testing"

	"github.com/iochoa/qvz/internal/alphabet"
)

func TestObserveAndFinalize(t *testing.T) {
	a := alphabet.New(3)
	tbl := New(a, 3)

	lines := [][]int{
		{0, 0, 0},
		{0, 0, 0},
		{1, 2, 1},
		{0, 1, 2},
	}
	for _, l := range lines {
		tbl.Observe(l)
	}
	tbl.Finalize()

	// Column 0 marginal: 3x symbol 0, 1x symbol 1 -> P(0)=0.75, P(1)=0.25.
	if got := tbl.Column0Marginal().Probability(0); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("P(col0=0) = %v, want 0.75", got)
	}

	// Conditional P(x1 | x0=0): two lines saw (0,0), one saw (0,1) -> 2/3, 1/3.
	cond := tbl.Conditional(1, 0)
	if got := cond.Probability(0); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("P(x1=0|x0=0) = %v, want 2/3", got)
	}
	if got := cond.Probability(1); math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("P(x1=1|x0=0) = %v, want 1/3", got)
	}
}

func TestConditionalOnUnseenContextIsSynthetic(t *testing.T) {
	a := alphabet.New(4)
	tbl := New(a, 2)
	tbl.Observe([]int{0, 0})
	tbl.Finalize()

	cond := tbl.Conditional(1, 3) // symbol 3 never appeared as a left context
	if !cond.Synthetic() {
		t.Fatal("expected an unseen context's conditional PMF to be Synthetic")
	}
}

func TestMarginalsAreNormalized(t *testing.T) {
	a := alphabet.New(5)
	tbl := New(a, 4)
	for i := 0; i < 20; i++ {
		tbl.Observe([]int{i % 5, (i + 1) % 5, (i + 2) % 5, (i + 3) % 5})
	}
	tbl.Finalize()
	for c := 0; c < 4; c++ {
		total := 0.0
		for _, s := range a.Symbols() {
			total += tbl.Marginal(c).Probability(s)
		}
		if math.Abs(total-1.0) > 1e-6 {
			t.Errorf("column %d marginal sums to %v, want 1", c, total)
		}
	}
}
