package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/citescout/core"
)

// Key prefixes for different data types
const (
	catalogTitlePrefix = "cattit:"
	journalPrefix      = "jrnl:"
)

// makeCatalogTitleKey generates a key for the title at position pos.
// Format: prefix:position
func makeCatalogTitleKey(pos uint64) []byte {
	prefixBytes := []byte(catalogTitlePrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so iteration returns catalog order
	binary.BigEndian.PutUint64(buf[offset:], pos)
	return buf
}

// makeJournalKey generates a cache key for a catalog title.
func makeJournalKey(title string) []byte {
	return []byte(fmt.Sprintf("%s%d", journalPrefix, core.IDFromContent(title)))
}
