package tagwire

import "github.com/unkn0wn-root/tagwire/primitive"

// Decode failures. Every error returned by a decoder in this module wraps
// exactly one of these.
var (
	ErrTruncatedInput      = primitive.ErrTruncatedInput
	ErrInvalidEncoding     = primitive.ErrInvalidEncoding
	ErrUnknownDiscriminant = primitive.ErrUnknownDiscriminant
	ErrMalformedLength     = primitive.ErrMalformedLength
	ErrLeftoverBytes       = primitive.ErrLeftoverBytes
)

// SeqError reports the index of the first collection element that failed to decode.
type SeqError = primitive.SeqError
