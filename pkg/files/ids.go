package files

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateEntryID returns 8 hex characters from 4 random bytes.
func GenerateEntryID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS source is broken.
		return fmt.Sprintf("%08x", uint32(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b[:])
}
