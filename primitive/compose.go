package primitive

import "fmt"

const (
	absent  byte = 0
	present byte = 1
)

// OptionLen is the encoded size of o given the size function of its inner type.
func OptionLen[T any](o Option[T], innerLen func(T) int) int {
	if v, ok := o.Get(); ok {
		return BoolLen + innerLen(v)
	}
	return BoolLen
}

// AppendOption writes the presence flag and, only when present, the inner value.
func AppendOption[T any](dst []byte, o Option[T], appendInner func([]byte, T) []byte) []byte {
	v, ok := o.Get()
	if !ok {
		return append(dst, absent)
	}
	dst = append(dst, present)
	return appendInner(dst, v)
}

// ReadOption reads a presence flag and, when it is set, delegates to readInner.
// Errors from readInner are returned unchanged.
func ReadOption[T any](b []byte, readInner func([]byte) (T, []byte, error)) (Option[T], []byte, error) {
	if len(b) == 0 {
		return Option[T]{}, nil, fmt.Errorf("option flag: %w", ErrTruncatedInput)
	}
	switch b[0] {
	case absent:
		return None[T](), b[1:], nil
	case present:
		v, rest, err := readInner(b[1:])
		if err != nil {
			return Option[T]{}, nil, err
		}
		return Some(v), rest, nil
	default:
		return Option[T]{}, nil, fmt.Errorf("option flag 0x%02x: %w", b[0], ErrInvalidEncoding)
	}
}

// SeqLen is the encoded size of items given the size function of one item.
func SeqLen[T any](items []T, itemLen func(T) int) int {
	n := U32Len
	for _, it := range items {
		n += itemLen(it)
	}
	return n
}

// AppendSeq writes the item count followed by every item in order.
// It panics if items holds more than MaxLen elements.
func AppendSeq[T any](dst []byte, items []T, appendItem func([]byte, T) []byte) []byte {
	if uint64(len(items)) > MaxLen {
		panic("tagwire: sequence longer than u32 count prefix")
	}
	dst = AppendU32(dst, uint32(len(items)))
	for _, it := range items {
		dst = appendItem(dst, it)
	}
	return dst
}

// ReadSeq reads a count and then that many items. The first failing item
// aborts the read; no partial slice is returned. The error is wrapped in a
// *SeqError carrying the item index.
func ReadSeq[T any](b []byte, readItem func([]byte) (T, []byte, error)) ([]T, []byte, error) {
	n, rest, err := ReadU32(b)
	if err != nil {
		return nil, nil, fmt.Errorf("seq count: %w", err)
	}
	// every item takes at least one byte; a forged count must not drive the allocation
	capHint := uint64(n)
	if capHint > uint64(len(rest)) {
		capHint = uint64(len(rest))
	}
	out := make([]T, 0, int(capHint))
	for i := uint32(0); i < n; i++ {
		var it T
		it, rest, err = readItem(rest)
		if err != nil {
			return nil, nil, &SeqError{Index: int(i), Count: n, Err: err}
		}
		out = append(out, it)
	}
	return out, rest, nil
}

// SeqError reports which sequence item failed to decode.
type SeqError struct {
	Index int
	Count uint32
	Err   error
}

func (e *SeqError) Error() string {
	return fmt.Sprintf("seq item %d of %d: %v", e.Index, e.Count, e.Err)
}

func (e *SeqError) Unwrap() error { return e.Err }
