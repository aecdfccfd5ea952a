package internal

import (
	"github.com/ValentinKolb/dBlog/lib/db/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Entry Type (key-value pair with metadata)
// --------------------------------------------------------------------------

// Entry stores a value together with the write index of its last update
type Entry struct {
	Value []byte // Stored data
	Index uint64 // Write index when this entry was created/updated
}

// --------------------------------------------------------------------------
// Shard Type (partition of the database)
// --------------------------------------------------------------------------

// Shard represents a partition of the database
type Shard struct {
	Data *xsync.MapOf[util.UintKey, Entry]
}

// NewShard creates a new shard with the provided hash function
func NewShard(hasher func(util.UintKey, uint64) uint64) *Shard {
	return &Shard{
		Data: xsync.NewMapOfWithHasher[util.UintKey, Entry](hasher),
	}
}

// NewShards creates n empty shards sharing the same hash function
func NewShards(n int, hasher func(util.UintKey, uint64) uint64) []*Shard {
	shards := make([]*Shard, n)
	for i := range shards {
		shards[i] = NewShard(hasher)
	}
	return shards
}

// GetShard returns the appropriate shard for a given key
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func GetShard[T any](key util.UintKey, shards []*T) *T {
	return shards[util.ShardFor(key, len(shards))]
}
