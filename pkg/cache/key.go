package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"lukechampine.com/blake3"

	"github.com/matzehuels/furnace/pkg/style"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// ArtifactKey identifies one rendering of one graph.
func ArtifactKey(graphHash string, sel style.Selection, format string) string {
	return hashKey("artifact", graphHash, sel.String(), format)
}
