package prng

import "github.com/dchest/siphash"

// siphash key: fixed, arbitrary constants — not a secret, just two more
// words of avalanche so that small codebooks (few bytes of varying content)
// still produce well-mixed seeds. Changing these constants would change
// every existing codebook's seed, so they are frozen here.
const (
	seedKeyLo uint64 = 0x716f767a5f636231
	seedKeyHi uint64 = 0x6f6f6b5f73656564
)

// DeriveSeed computes the codebook's well_seed_u32 field (§4.C, §6) from the
// already-serialized codebook bytes via SipHash-2-4, folded from 64 to 32
// bits. It is never derived from wall-clock time: the same codebook content
// always yields the same seed, so a regenerated-but-identical codebook
// reproduces the exact same encoder/decoder draw sequence.
func DeriveSeed(codebookBytes []byte) uint32 {
	h := siphash.Hash(seedKeyLo, seedKeyHi, codebookBytes)
	return uint32(h) ^ uint32(h>>32)
}
