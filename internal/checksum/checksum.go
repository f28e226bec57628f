// Package checksum computes version stamps for stored documents.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Stamp returns a single digest over several documents. Each document is
// length-prefixed so that moving bytes between documents changes the stamp.
func Stamp(docs ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, d := range docs {
		l := uint64(len(d))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(d)
	}
	return hex.EncodeToString(h.Sum(nil))
}
