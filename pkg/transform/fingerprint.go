package transform

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint derives the cache key of a rendered image from the resolved
// source path and the operations applied to it.
func Fingerprint(path string, ops Chain) string {
	serialized, err := ops.Canonical()
	if err != nil {
		// Chain holds only strings, encoding cannot fail.
		panic("transform: cannot serialize chain: " + err.Error())
	}

	hasher := blake3.New()
	hasher.Write([]byte(path))
	hasher.Write([]byte{';'})
	hasher.Write(serialized)

	return hex.EncodeToString(hasher.Sum(nil))
}
