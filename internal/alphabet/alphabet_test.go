package alphabet

import (
	"math"
	"testing"
)

func TestFromSymbolsDedupAndReindex(t *testing.T) {
	a := FromSymbols([]int{5, 2, 2, 9, 5})
	if a.Size() != 3 {
		t.Fatalf("size = %d, want 3", a.Size())
	}
	want := []int{2, 5, 9}
	for i, s := range want {
		if a.Symbol(i) != s {
			t.Errorf("Symbol(%d) = %d, want %d", i, a.Symbol(i), s)
		}
		pos, ok := a.Position(s)
		if !ok || pos != i {
			t.Errorf("Position(%d) = (%d,%v), want (%d,true)", s, pos, ok, i)
		}
	}
	if a.Contains(3) {
		t.Error("Contains(3) = true, want false")
	}
}

func TestPMFNormalize(t *testing.T) {
	a := New(4)
	p := NewPMF(a)
	p.Add(0, 1)
	p.Add(1, 3)
	p.Normalize()
	if got := p.Probability(0); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("P(0) = %v, want 0.25", got)
	}
	if got := p.Probability(1); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("P(1) = %v, want 0.75", got)
	}
	if p.Synthetic() {
		t.Error("expected non-synthetic PMF")
	}
}

func TestPMFNormalizeEmptyIsSyntheticUniform(t *testing.T) {
	a := New(5)
	p := NewPMF(a)
	p.Normalize()
	if !p.Synthetic() {
		t.Fatal("expected Synthetic for an all-zero PMF")
	}
	for i := 0; i < a.Size(); i++ {
		if got := p.ProbabilityAt(i); math.Abs(got-0.2) > 1e-9 {
			t.Errorf("ProbabilityAt(%d) = %v, want 0.2", i, got)
		}
	}
}

func TestPMFProbabilityImplicitlyNormalizes(t *testing.T) {
	a := New(2)
	p := NewPMF(a)
	p.Add(0, 1)
	p.Add(1, 1)
	if got := p.Probability(0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("P(0) = %v, want 0.5", got)
	}
	if !p.Normalized() {
		t.Error("expected Probability to normalize as a side effect")
	}
}

func TestEntropyOfUniformIsLog2N(t *testing.T) {
	a := New(8)
	p := NewPMF(a)
	for _, s := range a.Symbols() {
		p.Add(s, 1)
	}
	p.Normalize()
	if got, want := p.Entropy(), 3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Entropy() = %v, want %v", got, want)
	}
}
