package util

import (
	"encoding/hex"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/unkn0wn-root/tagwire/primitive"
)

// UniqSorted returns a sorted copy of keys with duplicates removed.
func UniqSorted(keys []string) []string {
	s := make([]string, len(keys))
	copy(s, keys)
	sort.Strings(s)
	out := s[:0]
	for i, k := range s {
		if i == 0 || k != s[i-1] {
			out = append(out, k)
		}
	}
	return out
}

// BulkKey returns a deterministic composite key for a set of names.
// sortedKeys must come from UniqSorted. Names are length-prefixed before
// hashing, so no separator inside a name can make two sets collide.
func BulkKey(prefix string, sortedKeys []string) string {
	var buf []byte
	for _, k := range sortedKeys {
		buf = primitive.AppendText(buf, k)
	}
	sum := blake3.Sum256(buf)
	return prefix + ":" + hex.EncodeToString(sum[:8]) // prefix + ":" + 16 hex chars
}
