// Package codec adapts value types to the []byte payloads held by the store.
//
// Tagged is the native binary format of package tagwire and the default.
// CBOR, Msgpack, JSON and Protobuf carry the same collections as Record
// lists through Collection, for interop with consumers that cannot read the
// native format.
package codec

import "github.com/unkn0wn-root/tagwire"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Tagged stores a collection in the native count-prefixed tagwire layout.
// The zero value is ready to use.
type Tagged struct{}

var _ Codec[[]tagwire.Value] = Tagged{}

// Encode refuses collections that would not decode again (invalid UTF-8 text).
func (Tagged) Encode(vs []tagwire.Value) ([]byte, error) {
	if err := tagwire.ValidateSeq(vs); err != nil {
		return nil, err
	}
	return tagwire.EncodeSeq(vs), nil
}

func (Tagged) Decode(b []byte) ([]tagwire.Value, error) { return tagwire.UnmarshalSeq(b) }

// Single stores one Value in the native layout.
type Single struct{}

func (Single) Encode(v tagwire.Value) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return tagwire.Encode(v), nil
}

func (Single) Decode(b []byte) (tagwire.Value, error) { return tagwire.Unmarshal(b) }

// Bytes is an identity codec. It lets a store view expose the raw payload of
// entries written by another codec over the same provider.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }
