package primitive

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// U32Len is the encoded size of every length and count prefix.
	U32Len = 4
	// BoolLen is the encoded size of a boolean and of a presence flag.
	BoolLen = 1
	// MaxLen is the largest text byte length or sequence count the
	// u32 prefix can describe.
	MaxLen = math.MaxUint32
)

var le = binary.LittleEndian

func AppendU32(dst []byte, v uint32) []byte {
	return le.AppendUint32(dst, v)
}

func ReadU32(b []byte) (uint32, []byte, error) {
	if len(b) < U32Len {
		return 0, nil, fmt.Errorf("u32: have %d of %d bytes: %w", len(b), U32Len, ErrTruncatedInput)
	}
	return le.Uint32(b[:U32Len]), b[U32Len:], nil
}

// AppendBool writes 1 for true and 0 for false.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// ReadBool accepts exactly 0 and 1. Any other byte is rejected rather than
// read as true.
func ReadBool(b []byte) (bool, []byte, error) {
	if len(b) == 0 {
		return false, nil, fmt.Errorf("bool: %w", ErrTruncatedInput)
	}
	switch b[0] {
	case 0:
		return false, b[1:], nil
	case 1:
		return true, b[1:], nil
	default:
		return false, nil, fmt.Errorf("bool: byte 0x%02x: %w", b[0], ErrInvalidEncoding)
	}
}

// TextLen is the encoded size of s.
func TextLen(s string) int { return U32Len + len(s) }

// AppendText writes the byte length of s followed by its bytes.
// It panics if s is longer than MaxLen bytes.
func AppendText(dst []byte, s string) []byte {
	if uint64(len(s)) > MaxLen {
		panic("tagwire: text longer than u32 length prefix")
	}
	dst = AppendU32(dst, uint32(len(s)))
	return append(dst, s...)
}

// ReadText copies the text out of b, so the result does not alias the input.
func ReadText(b []byte) (string, []byte, error) {
	n, rest, err := ReadU32(b)
	if err != nil {
		return "", nil, fmt.Errorf("text length: %w", err)
	}
	if uint64(n) > uint64(len(rest)) { // overflow-safe on 32-bit ints
		return "", nil, fmt.Errorf("text: declared %d bytes, %d remain: %w", n, len(rest), ErrMalformedLength)
	}
	raw := rest[:n]
	if !utf8.Valid(raw) {
		return "", nil, fmt.Errorf("text: %w", ErrInvalidEncoding)
	}
	return string(raw), rest[n:], nil
}
