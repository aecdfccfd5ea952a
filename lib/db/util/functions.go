package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// --------------------------------------------------------------------------
// General Utility Functions
// --------------------------------------------------------------------------

// GenerateSeed creates a random seed for internal hash distribution.
// It falls back to the current time if the system random source is unavailable.
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// CopyBytes returns a copy of b. A nil input yields an empty, non-nil slice so that
// stored values are never confused with missing ones.
func CopyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// UintKey is the hashed representation of a string key used by the engines.
type UintKey uint64

// HashString generates a hash value for a string with a seed
// using the FNV-1a algorithm.
func HashString(s string, seed uint64) UintKey {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64) ^ seed
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}

	return UintKey(hash)
}

// ShardFor maps a hashed key onto one of n shards.
// The low bits are skipped since FNV-1a mixes the last byte weakly.
func ShardFor(key UintKey, n int) int {
	return int((uint64(key) >> 7) % uint64(n))
}
