// Package tagwire implements a compact, self-describing binary encoding for a
// closed set of tagged values. Each Value is one of two variants, and each
// variant carries an optional payload:
//
//	tag 0  text  payload Option[string]
//	tag 1  bool  payload Option[bool]
//
// Wire format (multi-byte integers are little-endian u32):
//
//	Value     = tag(u8) | Option
//	Option[T] = presence(u8: 0 absent, 1 present) | T (only when present)
//	Text      = len(u32) | utf8 bytes[len]
//	Bool      = u8 (0 false, 1 true; anything else is invalid)
//	Seq[T]    = count(u32) | T * count
//
// Encode sizes its output with EncodedLen and writes it without reallocating.
// Decode parses one Value from untrusted input and returns the unconsumed
// remainder, so consecutive values can be read from one buffer:
//
//	v, rest, err := tagwire.Decode(b)
//	if err != nil {
//	    // errors.Is(err, tagwire.ErrUnknownDiscriminant) etc.
//	}
//
// The primitive building blocks live in package primitive; package store and
// the codec adapters persist encoded collections under named keys.
package tagwire
