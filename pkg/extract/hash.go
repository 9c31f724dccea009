package extract

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Hash returns the hex-encoded BLAKE3-256 digest of a file's content. The
// builder records it on every contributing source file.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
