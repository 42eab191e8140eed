package tagwire

import (
	"fmt"

	"github.com/unkn0wn-root/tagwire/primitive"
)

// Encode returns the encoding of v in a buffer allocated once at its exact size.
// Text payloads are written as is; see Validate.
func Encode(v Value) []byte {
	return Append(make([]byte, 0, EncodedLen(v)), v)
}

// Append appends the encoding of v to dst.
func Append(dst []byte, v Value) []byte {
	dst = append(dst, byte(v.tag))
	switch v.tag {
	case TagText:
		return primitive.AppendOption(dst, v.text, primitive.AppendText)
	default:
		return primitive.AppendOption(dst, v.flag, primitive.AppendBool)
	}
}

// Decode parses one Value from the front of b and returns it with the
// unconsumed remainder. It never panics on malformed input.
func Decode(b []byte) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, nil, fmt.Errorf("discriminant: %w", ErrTruncatedInput)
	}
	tag, rest := Tag(b[0]), b[1:]
	switch tag {
	case TagText:
		o, rest, err := primitive.ReadOption(rest, primitive.ReadText)
		if err != nil {
			return Value{}, nil, fmt.Errorf("text payload: %w", err)
		}
		return Text(o), rest, nil
	case TagBool:
		o, rest, err := primitive.ReadOption(rest, primitive.ReadBool)
		if err != nil {
			return Value{}, nil, fmt.Errorf("bool payload: %w", err)
		}
		return Bool(o), rest, nil
	default:
		return Value{}, nil, fmt.Errorf("discriminant %d: %w", uint8(tag), ErrUnknownDiscriminant)
	}
}

// Unmarshal decodes exactly one Value; trailing bytes are an error.
func Unmarshal(b []byte) (Value, error) {
	v, rest, err := Decode(b)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("%d bytes after value: %w", len(rest), ErrLeftoverBytes)
	}
	return v, nil
}

// EncodeSeq returns the count-prefixed encoding of vs, sized exactly by SeqEncodedLen.
func EncodeSeq(vs []Value) []byte {
	return AppendSeq(make([]byte, 0, SeqEncodedLen(vs)), vs)
}

// AppendSeq appends the count-prefixed encoding of vs to dst.
func AppendSeq(dst []byte, vs []Value) []byte {
	return primitive.AppendSeq(dst, vs, Append)
}

// DecodeSeq parses a count-prefixed collection. The first malformed element
// aborts the whole read with a *SeqError.
func DecodeSeq(b []byte) ([]Value, []byte, error) {
	return primitive.ReadSeq(b, Decode)
}

// UnmarshalSeq decodes exactly one collection; trailing bytes are an error.
func UnmarshalSeq(b []byte) ([]Value, error) {
	vs, rest, err := DecodeSeq(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%d bytes after collection: %w", len(rest), ErrLeftoverBytes)
	}
	return vs, nil
}
