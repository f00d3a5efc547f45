package randutil

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns a hex string built from length cryptographically random
// bytes, so the result is 2*length characters long.
func RandomHex(length int) (string, error) {
	buf := make([]byte, length)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

// ElideMiddle keeps a fixed prefix and suffix of s and replaces the middle
// with "...". Strings too short to elide are returned unchanged.
func ElideMiddle(s string, visibleStart, visibleEnd int) string {
	if len(s) <= visibleStart+visibleEnd {
		return s
	}

	return s[:visibleStart] + "..." + s[len(s)-visibleEnd:]
}
