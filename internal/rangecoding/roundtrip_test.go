package rangecoding

import "testing"

// model is a tiny fixed frequency table used only to drive the coder in
// these primitive-level tests; internal/freqmodel covers the adaptive case.
type model struct {
	cum []uint32 // cum[i] = cumulative count before symbol i, len == nsym+1
}

func (m *model) bracket(sym int) (fl, fh, ft uint32) {
	return m.cum[sym], m.cum[sym+1], m.cum[len(m.cum)-1]
}

func (m *model) find(v uint32) int {
	for i := 0; i < len(m.cum)-1; i++ {
		if v < m.cum[i+1] {
			return i
		}
	}
	return len(m.cum) - 2
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := &model{cum: []uint32{0, 3, 5, 16}} // symbols 0,1,2 with counts 3,2,11
	symbols := []int{2, 2, 0, 1, 2, 0, 0, 2, 1, 2}

	buf := make([]byte, 256)
	var enc Encoder
	enc.Init(buf)
	for _, s := range symbols {
		fl, fh, ft := m.bracket(s)
		enc.Encode(fl, fh, ft)
	}
	out := enc.Flush()

	var dec Decoder
	dec.Init(out)
	for i, want := range symbols {
		ft := m.cum[len(m.cum)-1]
		v := dec.Decode(ft)
		got := m.find(v)
		if got != want {
			t.Fatalf("symbol %d: got %d want %d", i, got, want)
		}
		fl, fh, _ := m.bracket(got)
		if i == len(symbols)-1 {
			dec.LastSymbol(fl, fh, ft)
		} else {
			dec.Update(fl, fh, ft)
		}
	}
}

func TestEncoderErrsOnSmallBuffer(t *testing.T) {
	m := &model{cum: []uint32{0, 1, 2}}
	buf := make([]byte, 1)
	var enc Encoder
	enc.Init(buf)
	for i := 0; i < 64; i++ {
		fl, fh, ft := m.bracket(i % 2)
		enc.Encode(fl, fh, ft)
	}
	enc.Flush()
	if !enc.Err() {
		t.Fatal("expected encoder to report error on undersized buffer")
	}
}
