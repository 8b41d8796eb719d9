package path

import (
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"hushpost/internal/protocol/agreement"
)

// Prefix is the homeserver namespace all conversation records live under.
const Prefix = "/pub/hushpost/chats/"

// Dir resolves the storage directory for a conversation from its key set.
//
// The directory name is BLAKE2b-256 of the locator subkey, so both
// participants resolve the same directory without communicating, while an
// observer holding only storage contents cannot invert it to learn which
// two identities are conversing. Each party writes only under this
// directory on its own homeserver; reads go to both.
func Dir(keys agreement.Keys) string {
	sum := blake2b.Sum256(keys.Locator[:])
	return Prefix + hex.EncodeToString(sum[:]) + "/"
}

// NewRecordPath returns a fresh object path for one record inside dir.
// Names are random UUIDs: records are immutable, so no name collision
// handling beyond uniqueness is needed.
func NewRecordPath(dir string) string {
	return dir + uuid.NewString() + ".json"
}
