package primitive

import "errors"

var (
	// ErrTruncatedInput means fewer bytes remain than the format requires.
	ErrTruncatedInput = errors.New("tagwire: truncated input")
	// ErrInvalidEncoding means bytes are present but break a local rule,
	// e.g. a boolean byte other than 0/1 or text that is not UTF-8.
	ErrInvalidEncoding = errors.New("tagwire: invalid encoding")
	// ErrUnknownDiscriminant means a variant tag outside the closed set.
	ErrUnknownDiscriminant = errors.New("tagwire: unknown discriminant")
	// ErrMalformedLength means a declared length exceeds the remaining input.
	ErrMalformedLength = errors.New("tagwire: malformed length")
	// ErrLeftoverBytes is returned by strict decoders when input remains
	// after a complete value.
	ErrLeftoverBytes = errors.New("tagwire: leftover bytes")
)
