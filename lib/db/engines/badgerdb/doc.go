// Package badgerdb implements the db.KVDB interface on top of BadgerDB, giving the
// blog's persistent slot a durable on-disk home without an explicit snapshot file.
//
// Every value is stored with an 8 byte little endian write index in front of it so
// that stale writes can be detected the same way the maple engine does. Save and Load
// use BadgerDB's native backup stream; Load drops all entries first.
//
// Write errors are logged through the "badger" logger because the KVDB write methods
// have no error return.
//
// Usage Example:
//
//	database, err := badgerdb.Open(badgerdb.DefaultConfig("data/badger"))
//	if err != nil {
//		return err
//	}
//	defer database.Close()
package badgerdb
