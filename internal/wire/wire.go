// Package wire frames codec payloads for storage. The envelope carries the
// generation the entry was written under so stale entries can be detected on
// read. Integers are little-endian, matching the tagwire payload format.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	version    byte = 1
	kindSingle byte = 1
	kindBulk   byte = 2

	hdrLen       = 4 + 1 + 1
	singleHdrLen = hdrLen + 8 + 4
	bulkHdrLen   = hdrLen + 4
	maxKeyLen    = 0xFFFF
)

var (
	ErrCorrupt    = errors.New("tagwire: corrupt entry")
	ErrInvalidKey = errors.New("tagwire: invalid bulk key length")

	magic4 = [...]byte{'T', 'G', 'W', 'R'}
	le     = binary.LittleEndian
)

func header(b []byte, kind byte) bool {
	return len(b) >= hdrLen && bytes.Equal(b[:4], magic4[:]) && b[4] == version && b[5] == kind
}

func appendHeader(dst []byte, kind byte) []byte {
	dst = append(dst, magic4[:]...)
	return append(dst, version, kind)
}

// SingleLen is the exact envelope size for a payload of n bytes.
func SingleLen(n int) int { return singleHdrLen + n }

// EncodeSingle: magic(4) | ver(1) | kind(1=single) | gen(u64) | vlen(u32) | payload(vlen)
func EncodeSingle(gen uint64, payload []byte) []byte {
	buf := make([]byte, 0, SingleLen(len(payload)))
	buf = appendHeader(buf, kindSingle)
	buf = le.AppendUint64(buf, gen)
	buf = le.AppendUint32(buf, uint32(len(payload)))
	return append(buf, payload...)
}

// DecodeSingle returns a payload sub-slice of b (no copy). The envelope must
// span b exactly; trailing bytes are corruption.
func DecodeSingle(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < singleHdrLen || !header(b, kindSingle) {
		return 0, nil, ErrCorrupt
	}
	off := hdrLen

	gen = le.Uint64(b[off : off+8])
	off += 8

	vlen := uint64(le.Uint32(b[off : off+4]))
	off += 4
	if vlen != uint64(len(b)-off) {
		return 0, nil, fmt.Errorf("%w: payload length %d, %d bytes follow", ErrCorrupt, vlen, len(b)-off)
	}
	return gen, b[off:], nil
}

// BulkItem is one named entry of a bulk envelope.
type BulkItem struct {
	Key     string
	Gen     uint64
	Payload []byte
}

// EncodeBulk:
//
//	magic(4) | ver(1) | kind(2=bulk) | n(u32)
//	{ klen(u16) | key(klen) | gen(u64) | vlen(u32) | payload(vlen) } * n
//
// Keys must be 1..65535 bytes long.
func EncodeBulk(items []BulkItem) ([]byte, error) {
	total := bulkHdrLen
	for _, it := range items {
		if l := len(it.Key); l == 0 || l > maxKeyLen {
			return nil, fmt.Errorf("%w: %d", ErrInvalidKey, l)
		}
		total += 2 + len(it.Key) + 8 + 4 + len(it.Payload)
	}

	buf := make([]byte, 0, total)
	buf = appendHeader(buf, kindBulk)
	buf = le.AppendUint32(buf, uint32(len(items)))
	for _, it := range items {
		buf = le.AppendUint16(buf, uint16(len(it.Key)))
		buf = append(buf, it.Key...)
		buf = le.AppendUint64(buf, it.Gen)
		buf = le.AppendUint32(buf, uint32(len(it.Payload)))
		buf = append(buf, it.Payload...)
	}
	return buf, nil
}

// DecodeBulk returns items whose payloads alias b. Trailing bytes after the
// last item are corruption.
func DecodeBulk(b []byte) ([]BulkItem, error) {
	if len(b) < bulkHdrLen || !header(b, kindBulk) {
		return nil, ErrCorrupt
	}
	off := hdrLen

	n := le.Uint32(b[off : off+4])
	off += 4

	// smallest item is 2+1+8+4 bytes; cap the allocation by what b can hold
	const minItem = 2 + 1 + 8 + 4
	capHint := uint64(n)
	if most := uint64((len(b) - off) / minItem); capHint > most {
		capHint = most
	}
	items := make([]BulkItem, 0, int(capHint))

	for i := uint32(0); i < n; i++ {
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		klen := int(le.Uint16(b[off : off+2]))
		off += 2
		if klen == 0 || klen > len(b)-off {
			return nil, ErrCorrupt
		}
		key := b[off : off+klen]
		off += klen

		if off+8+4 > len(b) {
			return nil, ErrCorrupt
		}
		gen := le.Uint64(b[off : off+8])
		off += 8
		vlen := uint64(le.Uint32(b[off : off+4]))
		off += 4
		if vlen > uint64(len(b)-off) { // overflow-safe bound check
			return nil, ErrCorrupt
		}
		payload := b[off : off+int(vlen)]
		off += int(vlen)

		items = append(items, BulkItem{
			Key:     string(key), // one expected alloc per item
			Gen:     gen,
			Payload: payload,
		})
	}
	if off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(b)-off)
	}
	return items, nil
}
