package rangecoding

// Encoder is a range encoder over a pre-allocated output buffer. It is the
// write side of the black-box entropy primitive: callers supply cumulative
// frequencies (fl, fh, ft) from an adaptive frequency model (see
// internal/freqmodel) and never see range/carry state.
type Encoder struct {
	buf     []byte
	storage uint32
	offs    uint32
	rng     uint32
	val     uint32
	rem     int // buffered byte awaiting carry resolution; -1 = none yet
	ext     uint32
	err     bool
}

// Init resets the encoder to write into buf, which must be large enough for
// the worst-case output (the caller of qvz.NewEncoder sizes it; the encoder
// never grows it).
func (e *Encoder) Init(buf []byte) {
	e.buf = buf
	e.storage = uint32(len(buf))
	e.offs = 0
	e.rng = codeTop
	e.val = 0
	e.rem = -1
	e.ext = 0
	e.err = false
}

// Encode narrows the range to [fl, fh) out of ft and emits any now-determined
// bytes. fl is the cumulative count of symbols ordered before this one; fh is
// the cumulative count through this symbol; ft is the model's total count.
func (e *Encoder) Encode(fl, fh, ft uint32) {
	r := e.rng / ft
	if fl > 0 {
		e.val += e.rng - r*(ft-fl)
		e.rng = r * (fh - fl)
	} else {
		e.rng -= r * (ft - fh)
	}
	e.normalize()
}

// Flush finalizes the stream and returns the encoded bytes. The encoder must
// not be reused without a fresh Init.
func (e *Encoder) Flush() []byte {
	l := codeBits - ilog(e.rng)
	msk := uint32(codeTop-1) >> uint(l)
	end := (e.val + msk) &^ msk
	if (end | msk) >= e.val+e.rng {
		l++
		msk >>= 1
		end = (e.val + msk) &^ msk
	}
	for l > 0 {
		e.carryOut(int(end >> codeShift))
		end = (end << symBits) & (codeTop - 1)
		l -= symBits
	}
	if e.rem >= 0 || e.ext > 0 {
		e.carryOut(0)
	}
	if e.err {
		return e.buf[:min(int(e.offs), len(e.buf))]
	}
	return e.buf[:e.offs]
}

// Err reports whether the output buffer was too small for the stream
// written so far. This is the only failure mode an Encoder has; §7 treats it
// as a fatal IoError at the driver.
func (e *Encoder) Err() bool { return e.err }

func (e *Encoder) carryOut(c int) {
	if c != symMax {
		carry := c >> symBits
		if e.rem >= 0 {
			e.writeByte(byte(e.rem + carry))
		}
		for ; e.ext > 0; e.ext-- {
			e.writeByte(byte((symMax + carry) & symMax))
		}
		e.rem = c & symMax
	} else {
		e.ext++
	}
}

func (e *Encoder) normalize() {
	for e.rng <= codeBot {
		e.carryOut(int(e.val >> codeShift))
		e.val = (e.val << symBits) & (codeTop - 1)
		e.rng <<= symBits
	}
}

func (e *Encoder) writeByte(b byte) {
	if e.offs >= e.storage {
		e.err = true
		return
	}
	e.buf[e.offs] = b
	e.offs++
}
