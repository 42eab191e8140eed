package tagwire

import "github.com/unkn0wn-root/tagwire/primitive"

// EncodedLen returns the exact number of bytes Encode writes for v.
func EncodedLen(v Value) int {
	switch v.tag {
	case TagText:
		return 1 + primitive.OptionLen(v.text, primitive.TextLen)
	default:
		return 1 + primitive.OptionLen(v.flag, boolLen)
	}
}

// SeqEncodedLen returns the exact number of bytes EncodeSeq writes for vs.
func SeqEncodedLen(vs []Value) int {
	return primitive.SeqLen(vs, EncodedLen)
}

func boolLen(bool) int { return primitive.BoolLen }
