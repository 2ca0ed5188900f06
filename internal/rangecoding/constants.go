// Package rangecoding implements the renormalizing byte-oriented range coder
// that §4.J treats as the system's entropy-coding primitive. It is adapted
// from the RFC 6716 range coder (ported from libopus celt/entenc.c and
// entdec.c): same carry-propagation and renormalization core, trimmed to the
// cumulative-frequency Encode/Decode/Update operations this module actually
// drives — no raw-bit end window, no ICDF tables, no bit-probability helpers,
// none of which a cumulative-frequency symbol coder needs.
package rangecoding

// Constants from RFC 6716 Section 4.1 / libopus celt/mfrngcod.h.
const (
	symBits   = 8                              // bits output at a time
	codeBits  = 32                             // total state register bits
	symMax    = (1 << symBits) - 1             // 255
	codeTop   = 1 << (codeBits - 1)            // 0x80000000
	codeBot   = codeTop >> symBits             // 0x00800000
	codeShift = codeBits - symBits - 1         // 23
	codeExtra = (codeBits-2)%symBits + 1       // 7
)
