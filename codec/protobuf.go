package codec

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/tagwire"
)

// Protobuf is a Codec for any generated message type.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message (e.g., func() *structpb.ListValue { return &structpb.ListValue{} })
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

// Encode marshals deterministically so equal messages produce equal bytes.
func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// ProtoRecords carries Records as a google.protobuf.ListValue of Structs
// {"tag": number, "text": string|null, "bool": bool|null}, so no generated
// code is needed on either side.
type ProtoRecords struct{}

var _ Codec[[]Record] = ProtoRecords{}

var listCodec = NewProtobuf(func() *structpb.ListValue { return &structpb.ListValue{} })

func (ProtoRecords) Encode(rs []Record) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, len(rs))}
	for i, r := range rs {
		fields := map[string]*structpb.Value{
			"tag":  structpb.NewNumberValue(float64(r.Tag)),
			"text": structpb.NewNullValue(),
			"bool": structpb.NewNullValue(),
		}
		if r.Text != nil {
			fields["text"] = structpb.NewStringValue(*r.Text)
		}
		if r.Bool != nil {
			fields["bool"] = structpb.NewBoolValue(*r.Bool)
		}
		list.Values[i] = structpb.NewStructValue(&structpb.Struct{Fields: fields})
	}
	return listCodec.Encode(list)
}

func (ProtoRecords) Decode(b []byte) ([]Record, error) {
	list, err := listCodec.Decode(b)
	if err != nil {
		return nil, err
	}
	rs := make([]Record, len(list.GetValues()))
	for i, v := range list.GetValues() {
		r, err := recordFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rs[i] = r
	}
	return rs, nil
}

func recordFromStruct(s *structpb.Struct) (Record, error) {
	if s == nil {
		return Record{}, fmt.Errorf("not a struct: %w", tagwire.ErrInvalidEncoding)
	}
	var r Record
	tag, ok := s.Fields["tag"].GetKind().(*structpb.Value_NumberValue)
	if !ok || tag.NumberValue < 0 || tag.NumberValue > math.MaxUint8 || tag.NumberValue != math.Trunc(tag.NumberValue) {
		return Record{}, fmt.Errorf("tag field: %w", tagwire.ErrInvalidEncoding)
	}
	r.Tag = uint8(tag.NumberValue)

	switch k := s.Fields["text"].GetKind().(type) {
	case nil, *structpb.Value_NullValue:
	case *structpb.Value_StringValue:
		text := k.StringValue
		r.Text = &text
	default:
		return Record{}, fmt.Errorf("text field: %w", tagwire.ErrInvalidEncoding)
	}
	switch k := s.Fields["bool"].GetKind().(type) {
	case nil, *structpb.Value_NullValue:
	case *structpb.Value_BoolValue:
		b := k.BoolValue
		r.Bool = &b
	default:
		return Record{}, fmt.Errorf("bool field: %w", tagwire.ErrInvalidEncoding)
	}
	return r, nil
}
