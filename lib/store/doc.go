// Package store provides the key-value abstraction the blog's persistent slot is
// written through. It sits on top of the lower-level db.KVDB engines and adds write
// index management and standardized error reporting.
//
// Key Components:
//
//   - IStore Interface: The operations the slot adapter needs (Set, Get, Has, Delete),
//     plus GetDBInfo for the `slot info` command and Close for releasing the engine.
//
//   - Error System: A structured error with a typed RetCode and a message, so callers
//     can tell an unsupported operation from an internal failure.
//
//   - DBFactory: A function type that abstracts the creation of the underlying
//     db.KVDB instance.
//
// Implementations:
//
//	- Local Store (lstore): a single-node implementation that directly uses a
//	  db.KVDB instance and can persist it as a snapshot file after every write.
//	  Available in the "github.com/ValentinKolb/dBlog/lib/store/lstore" package.
package store
