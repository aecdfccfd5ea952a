// Package maple implements an in-memory key-value database (KVDB) that serves as
// the default engine behind the blog's persistent slot. It provides a complete
// implementation of the db.KVDB interface with a focus on thread safety and a
// compact binary snapshot format.
//
// The package focuses on:
//   - Concurrent access through sharding on xsync.MapOf
//   - Stale-write protection through per-entry write indexes
//   - Snapshot persistence with a versioned binary encoding
//
// Key Components:
//
//   - mapleImpl: The central database structure implementing db.KVDB. It owns the
//     shards and the monotonically increasing write index. The write index itself is
//     generated by the caller (see lstore), mapleImpl only records it and ignores
//     writes that are older than the stored entry.
//
//   - Shard: A partition of the database that manages a subset of the key space.
//     Keys are spread across shards with a seeded FNV-1a hash.
//
// Persistence:
//
//	Save writes a snapshot of all entries; Load replaces the full content with a
//	snapshot. Load reads the whole snapshot before swapping the shards in, so a
//	truncated or corrupt file leaves the database unchanged. The seed is part of
//	the snapshot because keys are stored hashed.
//
// Usage Example:
//
//	database := maple.NewMapleDB(nil)
//	_ = database.Set("blogData", payload, 1)
//	value, ok, _ := database.Get("blogData")
//
//	f, _ := os.Create("slot.maple")
//	_ = database.Save(f)
package maple
