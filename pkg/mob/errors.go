package mob

import "errors"

// Codec errors.
var (
	ErrTruncatedInput        = errors.New("truncated input")
	ErrSectionLengthMismatch = errors.New("section length mismatch")
	ErrUnbalancedSection     = errors.New("unbalanced section")
	ErrMissingCipherKey      = errors.New("missing cipher key")
	ErrInvalidEncoding       = errors.New("invalid string encoding")
	ErrMalformedValue        = errors.New("malformed value")
	ErrInvalidTag            = errors.New("invalid tag")
)
