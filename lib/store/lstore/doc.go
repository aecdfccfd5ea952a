// Package lstore implements a local, single-node key-value store based on the
// store.IStore interface. It is a thin wrapper around any db.KVDB implementation
// with automatic write index management and optional snapshot file persistence.
//
// Implementation Details:
//
//   - Write Index Management: The store maintains an atomic counter that increments
//     with each write operation. On open it continues from the engine's current write
//     index so that writes after a restart are never treated as stale.
//
//   - Feature Detection: Before executing operations, the store checks if the underlying
//     db.KVDB implementation supports the requested feature through the SupportsFeature
//     method. Unsupported operations return store.RetCUnsupportedOperation.
//
//   - Snapshot Persistence: A store created with OpenLocalStore loads the snapshot file
//     on open and rewrites it after every Set or Delete. The file is replaced atomically
//     through a temporary file and a rename. This is how the in-memory maple engine
//     keeps the blog's slot across CLI invocations.
//
// Thread Safety:
//
//	All operations are thread-safe. The write index is managed with atomic
//	operations and snapshot writes are serialized by a mutex. The underlying db.KVDB
//	implementation provides its own thread safety for the storage operations.
//
// Usage Example:
//
//	factory := func() db.KVDB { return maple.NewMapleDB(nil) }
//	st, err := lstore.OpenLocalStore(factory, "data/blog.maple")
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	err = st.Set("blogData", blob)
//	value, exists, err := st.Get("blogData")
package lstore
