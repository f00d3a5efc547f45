package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// SecretHash is the digest stored in place of an API key secret. Lookups
// hash the presented secret and match on this value.
func SecretHash(secret string) string {
	hash := blake3.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
