package tagwire

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/unkn0wn-root/tagwire/primitive"
)

// Tag is the one-byte discriminant written in front of every Value.
type Tag uint8

const (
	TagText Tag = 0
	TagBool Tag = 1
)

func (t Tag) Valid() bool { return t == TagText || t == TagBool }

func (t Tag) String() string {
	switch t {
	case TagText:
		return "text"
	case TagBool:
		return "bool"
	default:
		return "tag(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is a closed sum of the text and bool variants. Fields are unexported
// so only the constructors below can build one; the zero Value is text(none).
type Value struct {
	tag  Tag
	text primitive.Option[string]
	flag primitive.Option[bool]
}

// Text builds a text value. A present payload must be valid UTF-8 for the
// value to decode again; use NewText or Validate for untrusted strings.
func Text(o primitive.Option[string]) Value { return Value{tag: TagText, text: o} }

// Bool builds a bool value.
func Bool(o primitive.Option[bool]) Value { return Value{tag: TagBool, flag: o} }

// SomeText is Text(primitive.Some(s)); s must be valid UTF-8.
func SomeText(s string) Value { return Text(primitive.Some(s)) }

// NoText is the text variant with no payload.
func NoText() Value { return Text(primitive.None[string]()) }

// SomeBool is Bool(primitive.Some(b)).
func SomeBool(b bool) Value { return Bool(primitive.Some(b)) }

// NoBool is the bool variant with no payload.
func NoBool() Value { return Bool(primitive.None[bool]()) }

// NewText is SomeText for strings from outside the program. It fails with
// ErrInvalidEncoding when s is not valid UTF-8, the same error Decode would
// return for the encoded bytes.
func NewText(s string) (Value, error) {
	if !utf8.ValidString(s) {
		return Value{}, fmt.Errorf("text %q: %w", s, ErrInvalidEncoding)
	}
	return SomeText(s), nil
}

// Validate reports whether v decodes back to itself after Encode.
// Only a present text payload holding invalid UTF-8 fails.
func (v Value) Validate() error {
	if s, ok := v.text.Get(); ok && v.tag == TagText && !utf8.ValidString(s) {
		return fmt.Errorf("text %q: %w", s, ErrInvalidEncoding)
	}
	return nil
}

// ValidateSeq reports the first element of vs that fails Validate.
func ValidateSeq(vs []Value) error {
	for i, v := range vs {
		if err := v.Validate(); err != nil {
			return &SeqError{Index: i, Count: uint32(len(vs)), Err: err}
		}
	}
	return nil
}

func (v Value) Tag() Tag { return v.tag }

// TextPayload returns the payload and true when v is a text value.
func (v Value) TextPayload() (primitive.Option[string], bool) {
	return v.text, v.tag == TagText
}

// BoolPayload returns the payload and true when v is a bool value.
func (v Value) BoolPayload() (primitive.Option[bool], bool) {
	return v.flag, v.tag == TagBool
}

func (v Value) Equal(o Value) bool { return v == o }

// String renders v as text("hello"), text(none), bool(true) or bool(none).
func (v Value) String() string {
	switch v.tag {
	case TagText:
		s, ok := v.text.Get()
		if !ok {
			return "text(none)"
		}
		return "text(" + strconv.Quote(s) + ")"
	default:
		b, ok := v.flag.Get()
		if !ok {
			return "bool(none)"
		}
		return "bool(" + strconv.FormatBool(b) + ")"
	}
}
