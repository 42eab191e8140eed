package codec

import (
	"fmt"

	"github.com/unkn0wn-root/tagwire"
	"github.com/unkn0wn-root/tagwire/primitive"
)

// Record is the self-describing form of a tagwire.Value used by the generic
// formats. A nil pointer is an absent payload; at most the pointer matching
// Tag may be set. CBOR and msgpack encode it as a 3-element array.
type Record struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	Tag  uint8   `json:"tag"`
	Text *string `json:"text,omitempty"`
	Bool *bool   `json:"bool,omitempty"`
}

// ToRecord never fails: every constructible Value has a Record form.
func ToRecord(v tagwire.Value) Record {
	r := Record{Tag: uint8(v.Tag())}
	if o, ok := v.TextPayload(); ok {
		if s, ok := o.Get(); ok {
			r.Text = &s
		}
		return r
	}
	o, _ := v.BoolPayload()
	if b, ok := o.Get(); ok {
		r.Bool = &b
	}
	return r
}

// FromRecord validates r with the same taxonomy as the binary decoder.
func FromRecord(r Record) (tagwire.Value, error) {
	switch tagwire.Tag(r.Tag) {
	case tagwire.TagText:
		if r.Bool != nil {
			return tagwire.Value{}, fmt.Errorf("text record carries a bool: %w", tagwire.ErrInvalidEncoding)
		}
		if r.Text == nil {
			return tagwire.NoText(), nil
		}
		return tagwire.Text(primitive.Some(*r.Text)), nil
	case tagwire.TagBool:
		if r.Text != nil {
			return tagwire.Value{}, fmt.Errorf("bool record carries text: %w", tagwire.ErrInvalidEncoding)
		}
		if r.Bool == nil {
			return tagwire.NoBool(), nil
		}
		return tagwire.Bool(primitive.Some(*r.Bool)), nil
	default:
		return tagwire.Value{}, fmt.Errorf("record tag %d: %w", r.Tag, tagwire.ErrUnknownDiscriminant)
	}
}

// Collection adapts a Codec over []Record to a Codec over []tagwire.Value.
type Collection struct {
	Inner Codec[[]Record]
}

var _ Codec[[]tagwire.Value] = Collection{}

func (c Collection) Encode(vs []tagwire.Value) ([]byte, error) {
	// JSON and protobuf would silently replace invalid UTF-8 with U+FFFD
	if err := tagwire.ValidateSeq(vs); err != nil {
		return nil, err
	}
	rs := make([]Record, len(vs))
	for i, v := range vs {
		rs[i] = ToRecord(v)
	}
	return c.Inner.Encode(rs)
}

func (c Collection) Decode(b []byte) ([]tagwire.Value, error) {
	rs, err := c.Inner.Decode(b)
	if err != nil {
		return nil, err
	}
	vs := make([]tagwire.Value, len(rs))
	for i, r := range rs {
		v, err := FromRecord(r)
		if err != nil {
			return nil, &tagwire.SeqError{Index: i, Count: uint32(len(rs)), Err: err}
		}
		vs[i] = v
	}
	return vs, nil
}
