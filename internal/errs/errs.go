// Package errs holds the sentinel errors shared across qvz's internal
// packages. It exists so that internal/quantize, internal/codebook, and the
// other leaf packages can return the same identities the root package
// re-exports, without an import cycle back through the root package.
package errs

import "errors"

var (
	ErrIO                   = errors.New("qvz: i/o error")
	ErrMalformedCodebook    = errors.New("qvz: malformed codebook")
	ErrInconsistentAlphabet = errors.New("qvz: symbol not in output alphabet")
	ErrColumnMismatch       = errors.New("qvz: line column count does not match codebook")
	ErrClusterRange         = errors.New("qvz: cluster id out of range")
)
