package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
	"time"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	if length <= 0 {
		return ""
	}
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length > len(encoded) {
		length = len(encoded)
	}
	return strings.ToLower(encoded[:length])
}

// GenerateWithTimestamp appends a timestamp to input before hashing.
func GenerateWithTimestamp(input string, timestamp time.Time, length int) string {
	return Generate(input+timestamp.Format(time.RFC3339Nano), length)
}

// GenerateUnique derives an ID from input and timestamp, bumping the
// timestamp by a nanosecond until taken reports the ID as free.
func GenerateUnique(input string, timestamp time.Time, length int, taken func(string) bool) string {
	id := GenerateWithTimestamp(input, timestamp, length)
	for taken != nil && taken(id) {
		timestamp = timestamp.Add(time.Nanosecond)
		id = GenerateWithTimestamp(input, timestamp, length)
	}
	return id
}
