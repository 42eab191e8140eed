package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/unkn0wn-root/tagwire"
)

func listOfOptions() []tagwire.Value {
	return []tagwire.Value{
		tagwire.SomeText("hello"),
		tagwire.NoText(),
		tagwire.SomeText(""),
		tagwire.SomeBool(true),
		tagwire.SomeBool(false),
		tagwire.NoBool(),
	}
}

func assertSameValues(t *testing.T, got, want []tagwire.Value) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("item %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func collectionCodecs() map[string]Codec[[]tagwire.Value] {
	return map[string]Codec[[]tagwire.Value]{
		"tagged":    Tagged{},
		"cbor":      Collection{Inner: MustCBOR[[]Record](true)},
		"cbor-fast": Collection{Inner: MustCBOR[[]Record](false)},
		"msgpack":   Collection{Inner: Msgpack[[]Record]{}},
		"json":      Collection{Inner: JSON[[]Record]{}},
		"protobuf":  Collection{Inner: ProtoRecords{}},
	}
}

func TestCollectionCodecsRoundTrip(t *testing.T) {
	for name, c := range collectionCodecs() {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(listOfOptions())
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			assertSameValues(t, got, listOfOptions())
		})
	}
}

func TestCollectionCodecsDeterministic(t *testing.T) {
	for name, c := range collectionCodecs() {
		if name == "cbor-fast" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			a, err := c.Encode(listOfOptions())
			if err != nil {
				t.Fatal(err)
			}
			b, err := c.Encode(listOfOptions())
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a, b) {
				t.Fatalf("encodings differ:\n%x\n%x", a, b)
			}
		})
	}
}

func TestTaggedMatchesNativeLayout(t *testing.T) {
	b, err := Tagged{}.Encode(listOfOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, tagwire.EncodeSeq(listOfOptions())) {
		t.Fatalf("Tagged codec diverges from tagwire.EncodeSeq")
	}
	if _, err := (Tagged{}).Decode(append(b, 0)); !errors.Is(err, tagwire.ErrLeftoverBytes) {
		t.Fatalf("trailing byte err=%v, want ErrLeftoverBytes", err)
	}
}

func TestSingleCodec(t *testing.T) {
	b, err := Single{}.Encode(tagwire.SomeBool(true))
	if err != nil || !bytes.Equal(b, []byte{1, 1, 1}) {
		t.Fatalf("Encode = %x, %v", b, err)
	}
	v, err := Single{}.Decode(b)
	if err != nil || !v.Equal(tagwire.SomeBool(true)) {
		t.Fatalf("Decode = %v, %v", v, err)
	}
	if _, err := (Single{}).Decode([]byte{5}); !errors.Is(err, tagwire.ErrUnknownDiscriminant) {
		t.Fatalf("err=%v", err)
	}
}

func TestFromRecordValidation(t *testing.T) {
	s, yes := "x", true
	cases := []struct {
		name string
		in   Record
		want error
	}{
		{"unknown tag", Record{Tag: 2}, tagwire.ErrUnknownDiscriminant},
		{"text with bool", Record{Tag: 0, Bool: &yes}, tagwire.ErrInvalidEncoding},
		{"bool with text", Record{Tag: 1, Text: &s}, tagwire.ErrInvalidEncoding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromRecord(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestCollectionReportsFailingIndex(t *testing.T) {
	b, err := JSON[[]Record]{}.Encode([]Record{{Tag: 0}, {Tag: 1}, {Tag: 9}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Collection{Inner: JSON[[]Record]{}}.Decode(b)
	var se *tagwire.SeqError
	if !errors.As(err, &se) || se.Index != 2 {
		t.Fatalf("want SeqError at 2, got %v", err)
	}
	if !errors.Is(err, tagwire.ErrUnknownDiscriminant) {
		t.Fatalf("err=%v, want ErrUnknownDiscriminant", err)
	}
}

func TestCBORRecordIsArray(t *testing.T) {
	b, err := MustCBOR[Record](true).Encode(ToRecord(tagwire.SomeBool(true)))
	if err != nil {
		t.Fatal(err)
	}
	// array(3) [0x01, null, true]
	want := []byte{0x83, 0x01, 0xf6, 0xf5}
	if !bytes.Equal(b, want) {
		t.Fatalf("CBOR record = %x, want %x", b, want)
	}
}

func TestLimitCodec(t *testing.T) {
	lc := LimitCodec[[]tagwire.Value]{Inner: Tagged{}, MaxDecode: 8}
	b, err := lc.Encode(listOfOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lc.Decode(b); err == nil {
		t.Fatalf("expected size limit error for %d bytes", len(b))
	}
	small, _ := lc.Encode([]tagwire.Value{tagwire.NoBool()})
	if _, err := lc.Decode(small); err != nil {
		t.Fatalf("small payload rejected: %v", err)
	}
	off := LimitCodec[[]tagwire.Value]{Inner: Tagged{}}
	if _, err := off.Decode(b); err != nil {
		t.Fatalf("MaxDecode=0 must disable the limit: %v", err)
	}
}

func TestProtoRecordsRejectsGarbage(t *testing.T) {
	if _, err := (ProtoRecords{}).Decode([]byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Fatalf("expected protobuf decode error")
	}
}

func TestEncodeRefusesInvalidUTF8(t *testing.T) {
	vs := []tagwire.Value{tagwire.SomeText("ok"), tagwire.SomeText("\xff\xfe")}
	for name, c := range collectionCodecs() {
		t.Run(name, func(t *testing.T) {
			_, err := c.Encode(vs)
			var se *tagwire.SeqError
			if !errors.Is(err, tagwire.ErrInvalidEncoding) || !errors.As(err, &se) || se.Index != 1 {
				t.Fatalf("err=%v, want ErrInvalidEncoding at index 1", err)
			}
		})
	}
	if _, err := (Single{}).Encode(tagwire.SomeText("\xff")); !errors.Is(err, tagwire.ErrInvalidEncoding) {
		t.Fatalf("Single: err=%v", err)
	}
}
