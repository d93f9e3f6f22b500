package badger

import (
	"encoding/binary"

	"github.com/poiesic/factmap/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix = "embrec"
)

// makeModelPrefix generates the key prefix shared by every embedding of a model.
// Format: prefix:model:
func makeModelPrefix(model string) []byte {
	buf := make([]byte, 0, len(embeddingPrefix)+len(model)+2)
	buf = append(buf, embeddingPrefix...)
	buf = append(buf, ':')
	buf = append(buf, model...)
	buf = append(buf, ':')
	return buf
}

// makeEmbeddingKey generates a key for an embedding by model and content ID.
// Format: prefix:model:id, with the ID in big endian.
func makeEmbeddingKey(model string, id core.ID) []byte {
	prefix := makeModelPrefix(model)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
