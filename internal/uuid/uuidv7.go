// Package uuid generates UUIDv7 identifiers for database primary keys.
// UUIDv7 embeds a millisecond timestamp in the high bits, so keys sort
// roughly by creation time and index well.
package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string.
func New() string {
	var id [16]byte

	// 48-bit Unix millisecond timestamp
	binary.BigEndian.PutUint64(id[0:8], uint64(time.Now().UnixMilli())<<16)

	if _, err := rand.Read(id[6:]); err != nil {
		// No randomness available; fall back to UUIDv4.
		return googleuuid.New().String()
	}

	// version 7, RFC 4122 variant
	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(id[0:4]),
		binary.BigEndian.Uint16(id[4:6]),
		binary.BigEndian.Uint16(id[6:8]),
		binary.BigEndian.Uint16(id[8:10]),
		id[10:16],
	)
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
