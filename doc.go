// Package qvz implements a lossy compressor/decompressor for quality-score
// streams from short-read sequencing data.
//
// Each record is a fixed-width sequence of discrete quality symbols. qvz
// trades a bounded per-symbol distortion for a large reduction in bitrate by
// replacing each input symbol with a reconstruction drawn from a smaller
// per-context codebook, then entropy-coding the reconstruction with an
// adaptive arithmetic coder whose context is the preceding reconstruction in
// the same column.
//
// # Pipeline
//
// Codebook construction (package internal/codebook) builds, for every
// column and every left-context symbol, a pair of Lloyd–Max quantizers (a
// "low" and "high" rate choice) from the conditional PMF chain
// (internal/condpmf) and a column-wise rate target. Encoding and decoding
// (driver.go) select between a context's two quantizers via a deterministic
// draw from a shared PRNG (internal/prng) — so encoder and decoder make
// identical choices without transmitting a selector bit — and arithmetic-code
// the resulting state index under a frequency model keyed by
// (cluster, column, left-context codebook index) (internal/freqmodel, over
// internal/rangecoding).
//
// qvz does not do lossless reconstruction, does not support variable-width
// records, does not stream an unknown column count, and does not
// multi-thread the encoding of a single file.
package qvz
