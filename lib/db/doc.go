// Package db provides a standardized interface for the key-value engines that back
// the blog's persistent slot. It defines the KVDB interface so that the in-memory
// and the on-disk engine can be swapped without touching the store or slot layers.
//
// The package focuses on:
//   - A unified interface for key-value operations
//   - Feature discovery through capability flags
//   - Standardized snapshot persistence (Save, Load)
//   - Metadata reporting for the `slot info` command
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must satisfy.
//     It provides methods for basic operations (Set, Get, Has, Delete), metadata
//     retrieval (GetInfo) and persistence operations (Save, Load).
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     can advertise through the SupportsFeature method. This allows callers to
//     discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for the available backends ("maple" and "badger").
//
//   - Database Information: The DatabaseInfo structure reports the database state,
//     including size statistics, key count, implementation type, and
//     implementation-specific metadata.
//
// Note on Write Indexes:
//   - All write operations take a write-index that serves as a logical timestamp.
//     Writes carrying an index lower than the one recorded for the key are stale and
//     are ignored. The write-index only increases monotonically; SetWriteIdx ignores
//     lower values.
//
// Related Packages:
//
// The engines/maple package (github.com/ValentinKolb/dBlog/lib/db/engines/maple) provides a
// sharded in-memory implementation with a binary snapshot format.
//
// The engines/badgerdb package (github.com/ValentinKolb/dBlog/lib/db/engines/badgerdb)
// provides a durable implementation backed by BadgerDB.
//
// The testing package (github.com/ValentinKolb/dBlog/lib/db/testing) provides
// standardized tests and benchmarks for implementations of the db.KVDB interface.
package db
