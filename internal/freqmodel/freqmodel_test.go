package freqmodel

import "testing"

func TestStepKeepsCountsPositiveAndTotalBounded(t *testing.T) {
	m := New(5, 64)
	for i := 0; i < 10000; i++ {
		m.Step(i % 5)
		if m.Total() >= m.rmax {
			t.Fatalf("iteration %d: total %d reached rmax %d", i, m.Total(), m.rmax)
		}
		for s, c := range m.counts {
			if c == 0 {
				t.Fatalf("iteration %d: count[%d] = 0", i, s)
			}
		}
	}
}

func TestBracketAndFindRoundTrip(t *testing.T) {
	m := New(4, RMax)
	m.Step(2)
	m.Step(2)
	m.Step(0)
	for sym := 0; sym < 4; sym++ {
		fl, fh, ft := m.Bracket(sym)
		if ft != m.Total() {
			t.Fatalf("Bracket(%d) ft = %d, want %d", sym, ft, m.Total())
		}
		mid := fl
		if fh > fl {
			mid = fl // use the left edge: Find must map it back to sym
		}
		gotSym, gotFl, gotFh, _ := m.Find(mid)
		if gotSym != sym || gotFl != fl || gotFh != fh {
			t.Fatalf("Find(%d) = (%d,%d,%d), want (%d,%d,%d)", mid, gotSym, gotFl, gotFh, sym, fl, fh)
		}
	}
}

func TestBankLazyAllocationAndReuse(t *testing.T) {
	b := NewBank(2, RMax)
	m1 := b.Context(0, 3, 7, 10)
	m2 := b.Context(0, 3, 7, 10)
	if m1 != m2 {
		t.Fatal("Bank.Context did not reuse the model for an identical key")
	}
	m3 := b.Context(0, 3, 8, 10)
	if m1 == m3 {
		t.Fatal("Bank.Context returned the same model for different contexts")
	}
	if b.Cluster().States() != 2 {
		t.Fatalf("Cluster model has %d states, want 2", b.Cluster().States())
	}
}
