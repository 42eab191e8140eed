package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/unkn0wn-root/tagwire"
)

func mustDecodeSingle(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	gen, p, err := DecodeSingle(b)
	if err != nil {
		t.Fatalf("DecodeSingle error: %v", err)
	}
	return gen, p
}

func mustEncodeBulk(t *testing.T, items []BulkItem) []byte {
	t.Helper()
	b, err := EncodeBulk(items)
	if err != nil {
		t.Fatalf("EncodeBulk error: %v", err)
	}
	return b
}

func mustDecodeBulk(t *testing.T, b []byte) []BulkItem {
	t.Helper()
	it, err := DecodeBulk(b)
	if err != nil {
		t.Fatalf("DecodeBulk error: %v", err)
	}
	return it
}

func TestSingleRoundTrip(t *testing.T) {
	cases := []struct {
		gen     uint64
		payload []byte
	}{
		{0, nil},
		{42, tagwire.EncodeSeq([]tagwire.Value{tagwire.SomeText("hello"), tagwire.NoBool()})},
		{math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		enc := EncodeSingle(tc.gen, tc.payload)
		if len(enc) != SingleLen(len(tc.payload)) || cap(enc) != len(enc) {
			t.Fatalf("len=%d cap=%d want %d", len(enc), cap(enc), SingleLen(len(tc.payload)))
		}
		gen, p := mustDecodeSingle(t, enc)
		if gen != tc.gen {
			t.Fatalf("gen mismatch: got %d want %d", gen, tc.gen)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestSingleLayout(t *testing.T) {
	enc := EncodeSingle(0x0102, []byte{0xAA})
	want := []byte{
		'T', 'G', 'W', 'R', version, kindSingle,
		0x02, 0x01, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		0xAA,
	}
	if !bytes.Equal(enc, want) {
		t.Fatalf("EncodeSingle = %x, want %x", enc, want)
	}
}

func TestSingleRejectsTrailingBytes(t *testing.T) {
	enc := EncodeSingle(7, []byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, _, err := DecodeSingle(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestSingleCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeSingle(1, []byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := DecodeSingle(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := DecodeSingle(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindBulk
	if _, _, err := DecodeSingle(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// vlen too large (announce more than available)
	tooLong := append([]byte(nil), enc...)
	// vlen is at offset 14..17 (4 magic +1 ver +1 kind +8 gen)
	binary.LittleEndian.PutUint32(tooLong[14:18], uint32(len("abc")+1))
	if _, _, err := DecodeSingle(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// every truncation fails
	for n := 0; n < len(enc); n++ {
		if _, _, err := DecodeSingle(enc[:n]); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("prefix %d: err=%v", n, err)
		}
	}
}

func TestSingleZeroCopyPayload(t *testing.T) {
	enc := EncodeSingle(1, []byte("Z"))
	_, p := mustDecodeSingle(t, enc)
	if len(p) != 1 {
		t.Fatalf("unexpected payload len")
	}
	// mutate payload slice. should mutate underlying enc bytes (zero-copy)
	p[0] = 'Q'
	_, p2 := mustDecodeSingle(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

func TestBulkRoundTrip(t *testing.T) {
	cases := [][]BulkItem{
		nil, // n=0
		{{Key: "a", Gen: 1, Payload: []byte("x")}},
		{
			{Key: "a", Gen: 1, Payload: []byte("x")},
			{Key: "b", Gen: 2, Payload: nil}, // empty payload
			{Key: "c", Gen: 3, Payload: []byte{9, 8, 7}},
		},
		// duplicates allowed. decoder preserves both
		{
			{Key: "dup", Gen: 1, Payload: []byte("old")},
			{Key: "dup", Gen: 2, Payload: []byte("new")},
		},
	}
	for _, items := range cases {
		enc := mustEncodeBulk(t, items)
		if cap(enc) != len(enc) {
			t.Fatalf("EncodeBulk reallocated: len=%d cap=%d", len(enc), cap(enc))
		}
		got := mustDecodeBulk(t, enc)
		if len(got) != len(items) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(items))
		}
		for i := range items {
			if got[i].Key != items[i].Key || got[i].Gen != items[i].Gen || !bytes.Equal(got[i].Payload, items[i].Payload) {
				t.Fatalf("item %d mismatch: got=%+v want=%+v", i, got[i], items[i])
			}
		}
	}
}

func TestBulkRejectsTrailingBytes(t *testing.T) {
	enc := mustEncodeBulk(t, []BulkItem{{Key: "k", Gen: 1, Payload: []byte("v")}})
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeBulk(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestBulkWrongCountAndTruncation(t *testing.T) {
	// Wrong n (very large) with no items -> must error, not panic.
	hdr := []byte{'T', 'G', 'W', 'R', version, kindBulk}
	bogus := binary.LittleEndian.AppendUint32(append([]byte(nil), hdr...), ^uint32(0))
	if _, err := DecodeBulk(bogus); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}

	// Declare n=1 but provide no item body -> error
	short := binary.LittleEndian.AppendUint32(append([]byte(nil), hdr...), 1)
	if _, err := DecodeBulk(short); err == nil {
		t.Fatalf("expected error on truncated item list")
	}
}

func TestBulkKeyLengthValidation(t *testing.T) {
	// empty key -> error
	if _, err := EncodeBulk([]BulkItem{{Key: "", Gen: 1, Payload: []byte("x")}}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey on empty key, got %v", err)
	}
	// too long key (65536) -> error
	if _, err := EncodeBulk([]BulkItem{{Key: strings.Repeat("a", 0x10000), Gen: 1}}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey on key length > 0xFFFF, got %v", err)
	}
	// boundary (65535) -> ok
	if _, err := EncodeBulk([]BulkItem{{Key: strings.Repeat("b", 0xFFFF), Gen: 1}}); err != nil {
		t.Fatalf("boundary key length should succeed: %v", err)
	}
}

func TestBulkCorruptLengths(t *testing.T) {
	enc := mustEncodeBulk(t, []BulkItem{
		{Key: "k", Gen: 9, Payload: []byte("xyz")},
	})

	// header: 4 magic +1 ver +1 kind +4 n = 10 bytes
	// item: 2 klen + klen + 8 gen + 4 vlen + payload
	klen := 1                   // "k"
	offset := 10 + 2 + klen + 8 // start of vlen
	badVlen := append([]byte(nil), enc...)
	binary.LittleEndian.PutUint32(badVlen[offset:offset+4], uint32(len("xyz")+1))
	if _, err := DecodeBulk(badVlen); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// klen too large (announce more than available)
	badKlen := append([]byte(nil), enc...)
	binary.LittleEndian.PutUint16(badKlen[10:12], uint16(50))
	if _, err := DecodeBulk(badKlen); err == nil {
		t.Fatalf("expected error on klen beyond buffer")
	}

	// zero klen
	zeroKlen := append([]byte(nil), enc...)
	binary.LittleEndian.PutUint16(zeroKlen[10:12], 0)
	if _, err := DecodeBulk(zeroKlen); err == nil {
		t.Fatalf("expected error on zero klen")
	}

	for n := 0; n < len(enc); n++ {
		if _, err := DecodeBulk(enc[:n]); err == nil {
			t.Fatalf("prefix %d decoded without error", n)
		}
	}
}

func TestBulkZeroCopyPayloadSlices(t *testing.T) {
	enc := mustEncodeBulk(t, []BulkItem{
		{Key: "a", Gen: 1, Payload: []byte("X")},
		{Key: "b", Gen: 2, Payload: []byte("Y")},
	})
	got := mustDecodeBulk(t, enc)
	if len(got) != 2 || len(got[0].Payload) != 1 {
		t.Fatalf("unexpected decoded items")
	}

	// mutate decoded payload. should mutate underlying enc bytes
	got[0].Payload[0] = 'Q'

	got2 := mustDecodeBulk(t, enc)
	if got2[0].Payload[0] != 'Q' {
		t.Fatalf("expected zero-copy payload subslices into enc buffer")
	}
}
