package stream

import (
	"bytes"
	"testing"

	"github.com/iochoa/qvz/internal/alphabet"
	"github.com/iochoa/qvz/internal/codebook"
	"github.com/iochoa/qvz/internal/condpmf"
	"github.com/iochoa/qvz/internal/distortion"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{RecordCount: 12345, Columns: 80, Clusters: 3, CodebookOffset: 999}
	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	got, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	n, columns := 5, 3
	a := alphabet.New(n)
	pmfs := condpmf.New(a, columns)
	for i := 0; i < 64; i++ {
		pmfs.Observe([]int{i % n, (i + 1) % n, (i + 2) % n})
	}
	pmfs.Finalize()
	dist := distortion.New(distortion.SquaredError, n)
	cb, err := codebook.GenerateAll([]*condpmf.Table{pmfs}, dist, 1.0, n, nil)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	cb.Seed = 7

	body := []byte{0x01, 0x02, 0x03, 0x04}
	h := Header{RecordCount: 64, Columns: uint32(columns), Clusters: 1}

	var buf bytes.Buffer
	if err := WriteFile(&buf, h, cb, body); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	gotHeader, gotCB, gotBody, err := ReadFile(&buf, n)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gotHeader.RecordCount != h.RecordCount || gotHeader.Columns != h.Columns || gotHeader.Clusters != h.Clusters {
		t.Fatalf("header mismatch: got %+v", gotHeader)
	}
	if gotHeader.CodebookOffset != headerByteSize {
		t.Fatalf("codebook offset = %d, want %d", gotHeader.CodebookOffset, headerByteSize)
	}
	if gotCB.Seed != cb.Seed || gotCB.ClusterCount() != cb.ClusterCount() {
		t.Fatalf("codebook mismatch: got %+v", gotCB)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %v, want %v", gotBody, body)
	}
}
