// Package primitive implements the byte-exact building blocks of the tagwire
// format: fixed-width unsigned integers, booleans, UTF-8 text, optional values
// and count-prefixed sequences.
//
// Writers follow the append convention: they take a destination slice and
// return it extended, so a caller that sized dst with the matching *Len
// function never triggers a reallocation. Readers take the input slice and
// return the decoded value together with the unconsumed remainder.
//
// Layout (all multi-byte integers little-endian):
//
//	U32       = 4 bytes
//	Bool      = 1 byte, 0 or 1
//	Text      = len(u32) | utf8 bytes[len]
//	Option[T] = presence(u8: 0 or 1) | T (only when presence == 1)
//	Seq[T]    = count(u32) | T * count
//
// Readers never panic on malformed input. Every failure wraps one of the
// sentinel errors below; test for them with errors.Is.
package primitive
