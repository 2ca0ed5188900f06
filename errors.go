// errors.go defines public error types for the qvz package, per §7's error
// kinds. IoError, MalformedCodebook and InconsistentAlphabet are fatal and
// always surfaced (wrapped with github.com/pkg/errors for caller context);
// RateInfeasible and EmptyContext are recovered at the point of detection
// inside internal/codebook and never escape a public API.
//
// The identities live in internal/errs so leaf packages (internal/quantize,
// internal/codebook, ...) can return them without importing this package.

package qvz

import "github.com/iochoa/qvz/internal/errs"

var (
	// ErrIO wraps a read/write failure from a collaborator (line iterator,
	// output sink, or codebook file). Fatal.
	ErrIO = errs.ErrIO

	// ErrMalformedCodebook indicates a codebook file failed to parse, or an
	// invariant (e.g. a context line's state counts disagreeing with its
	// reconstruction maps) was violated while loading one. Fatal.
	ErrMalformedCodebook = errs.ErrMalformedCodebook

	// ErrInconsistentAlphabet indicates a reconstruction symbol was not
	// found in its own quantizer's output alphabet. This should be
	// unreachable for consistent codebook/input data; seeing it signals
	// corruption or tampering. Fatal.
	ErrInconsistentAlphabet = errs.ErrInconsistentAlphabet

	// ErrColumnMismatch indicates a line's column count does not match the
	// codebook's column count.
	ErrColumnMismatch = errs.ErrColumnMismatch

	// ErrClusterRange indicates a cluster id read from the stream is
	// outside the codebook's cluster count.
	ErrClusterRange = errs.ErrClusterRange
)
