// Package slot implements the blog's persistent slot: the whole dataset serialized
// as one JSON blob under a single key of a store.IStore.
//
// Load reads the slot. When the slot is empty it fetches the bootstrap document
// (embedded seed, local file or HTTP URL, JSON or YAML), validates it, writes it to
// the slot and returns it. Save overwrites the slot with a full dataset; there are no
// partial writes and the last write wins.
//
// Errors:
//
//   - *LoadError: the slot could not be read or decoded, or the slot was empty and
//     the bootstrap document could not be fetched or decoded. Source tells which.
//   - *ParseError: a document is not a well formed dataset. Problems lists every
//     violation found.
//
// Metrics are registered with github.com/VictoriaMetrics/metrics under the
// dblog_slot_ prefix.
//
// Usage Example:
//
//	st := lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
//	adapter := slot.New(st, slot.EmbeddedBootstrap())
//
//	d, err := adapter.Load(ctx)
//	if err != nil {
//		return err
//	}
//	d, _, err = blog.CreatePost(d, fields)
//	if err != nil {
//		return err
//	}
//	err = adapter.Save(ctx, d)
package slot
