package qvz

import (
	"testing"

	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/codebook"
	"github.com/iochoa/qvz/internal/condpmf"
	"github.com/iochoa/qvz/internal/distortion"
)

// buildCodebook trains a small single-cluster codebook over synthetic
// lines, mirroring scenario S1's shape: a handful of columns over a small
// alphabet.
func buildCodebook(t *testing.T, n, columns int, lines [][]int, rate float64) *codebook.Codebook {
	t.Helper()
	a := alphabet.New(n)
	pmfs := condpmf.New(a, columns)
	for _, l := range lines {
		pmfs.Observe(l)
	}
	pmfs.Finalize()
	dist := distortion.New(distortion.SquaredError, n)
	cb, err := codebook.GenerateAll([]*condpmf.Table{pmfs}, dist, rate, n, nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	cb.Seed = 0x1234abcd
	return cb
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n, columns := 5, 3
	lines := [][]int{
		{4, 4, 4},
		{0, 0, 0},
		{4, 4, 4},
		{0, 0, 0},
	}
	cb := buildCodebook(t, n, columns, lines, 1.0)

	buf := make([]byte, 4096)
	enc := NewEncoder(cb, buf, nil, nil)
	for _, l := range lines {
		if err := enc.EncodeLine(0, l); err != nil {
			t.Fatalf("EncodeLine: %v", err)
		}
	}
	out, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := NewDecoder(cb, out, nil)
	for i := range lines {
		cluster, symbols, err := dec.DecodeLine(i == len(lines)-1)
		if err != nil {
			t.Fatalf("DecodeLine %d: %v", i, err)
		}
		if cluster != 0 {
			t.Fatalf("line %d: cluster = %d, want 0", i, cluster)
		}
		if len(symbols) != columns {
			t.Fatalf("line %d: got %d symbols, want %d", i, len(symbols), columns)
		}
		for c, want := range lines[i] {
			if symbols[c] != want {
				t.Fatalf("line %d: symbols = %v, want %v", i, symbols, lines[i])
			}
		}
	}
}

func TestEncodeDecodeAcrossClusters(t *testing.T) {
	n, columns := 4, 2
	clusterLines := [][][]int{
		{{0, 1}, {1, 0}, {0, 1}},
		{{3, 2}, {2, 3}, {3, 2}},
	}

	var tables []*condpmf.Table
	a := alphabet.New(n)
	for _, lines := range clusterLines {
		tbl := condpmf.New(a, columns)
		for _, l := range lines {
			tbl.Observe(l)
		}
		tbl.Finalize()
		tables = append(tables, tbl)
	}
	dist := distortion.New(distortion.SquaredError, n)
	cb, err := codebook.GenerateAll(tables, dist, 1.0, n, nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	cb.Seed = 42

	type rec struct {
		cluster int
		symbols []int
	}
	var records []rec
	for ci, lines := range clusterLines {
		for _, l := range lines {
			records = append(records, rec{ci, l})
		}
	}

	buf := make([]byte, 4096)
	enc := NewEncoder(cb, buf, dist, nil)
	for _, r := range records {
		if err := enc.EncodeLine(r.cluster, r.symbols); err != nil {
			t.Fatalf("EncodeLine cluster %d: %v", r.cluster, err)
		}
	}
	out, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if enc.Stats().Lines() != len(records) {
		t.Fatalf("Stats().Lines() = %d, want %d", enc.Stats().Lines(), len(records))
	}

	dec := NewDecoder(cb, out, nil)
	for i, r := range records {
		cluster, symbols, err := dec.DecodeLine(i == len(records)-1)
		if err != nil {
			t.Fatalf("DecodeLine %d: %v", i, err)
		}
		if cluster != r.cluster {
			t.Fatalf("line %d: cluster = %d, want %d", i, cluster, r.cluster)
		}
		if len(symbols) != columns {
			t.Fatalf("line %d: got %d symbols, want %d", i, len(symbols), columns)
		}
	}
}

func TestEncodeRejectsColumnMismatch(t *testing.T) {
	cb := buildCodebook(t, 4, 3, [][]int{{0, 1, 2}, {1, 2, 3}}, 1.0)
	enc := NewEncoder(cb, make([]byte, 256), nil, nil)
	if err := enc.EncodeLine(0, []int{0, 1}); err == nil {
		t.Fatal("expected an error for a short line")
	}
}

func TestEncodeRejectsOutOfRangeCluster(t *testing.T) {
	cb := buildCodebook(t, 4, 2, [][]int{{0, 1}, {1, 2}}, 1.0)
	enc := NewEncoder(cb, make([]byte, 256), nil, nil)
	if err := enc.EncodeLine(5, []int{0, 1}); err == nil {
		t.Fatal("expected an error for an out-of-range cluster id")
	}
}
