package maple

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/db/engines/maple/internal"
	"github.com/ValentinKolb/dBlog/lib/db/util"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	magicNum     = "MAPLEDB\x00" // File format identifier
	mapleVersion = 4             // Snapshot format version (v4 dropped the TTL fields)

	// maxValueLen guards Load against corrupt length prefixes
	maxValueLen = 256 * 1024 * 1024
)

// --------------------------------------------------------------------------
// Core Maple database structure
// --------------------------------------------------------------------------

// mapleImpl implements an in-memory database with sharded data
type mapleImpl struct {
	numShards int               // Number of shards
	seed      uint64            // Seed for hash function
	shards    []*internal.Shard // Array of shards
	currIndex atomic.Uint64     // Current logical timestamp

	// loadMu blocks all operations while Load swaps the shards
	loadMu sync.RWMutex
}

// DBOptions configures the mapleImpl behavior during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = number of CPUs)
}

// DefaultOptions returns the default mapleImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(),
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapleDB creates a new MapleDB instance with the specified options (optional)
func NewMapleDB(opts *DBOptions) db.KVDB {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.NumShards <= 0 {
		opts.NumShards = runtime.NumCPU()
	}

	return &mapleImpl{
		numShards: opts.NumShards,
		seed:      util.GenerateSeed(),
		shards:    internal.NewShards(opts.NumShards, createIdentityHasher()),
	}
}

// createIdentityHasher creates a hash function that combines a key with a seed
func createIdentityHasher() func(util.UintKey, uint64) uint64 {
	return func(key util.UintKey, mapSeed uint64) uint64 {
		return uint64(key) ^ mapSeed
	}
}

// locate hashes the key with this instance's seed and returns the key and its shard
func (maple *mapleImpl) locate(key string) (util.UintKey, *internal.Shard) {
	intKey := util.HashString(key, maple.seed)
	return intKey, internal.GetShard(intKey, maple.shards)
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key, value, and writeIndex.
// Stale writes (writeIndex lower than the stored index) are ignored.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Set(key string, value []byte, writeIndex uint64) error {
	maple.loadMu.RLock()
	defer maple.loadMu.RUnlock()

	maple.SetWriteIdx(writeIndex)
	intKey, shard := maple.locate(key)
	valueCopy := util.CopyBytes(value)

	shard.Data.Compute(intKey, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded && writeIndex < old.Index {
			return old, false
		}
		return internal.Entry{Value: valueCopy, Index: writeIndex}, false
	})
	return nil
}

// Delete removes an entry with the specified key. This change is immediate.
// The in-memory engine never fails a write, the error is always nil.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Delete(key string, writeIndex uint64) error {
	maple.loadMu.RLock()
	defer maple.loadMu.RUnlock()

	maple.SetWriteIdx(writeIndex)
	intKey, shard := maple.locate(key)

	shard.Data.Compute(intKey, func(old internal.Entry, loaded bool) (internal.Entry, bool) {
		if loaded && writeIndex < old.Index {
			return old, false
		}
		// returning delete=true for a missing key is a no-op
		return old, true
	})
	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The returned value is a copy of the stored data and therefore safe to modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Get(key string) ([]byte, bool, error) {
	maple.loadMu.RLock()
	defer maple.loadMu.RUnlock()

	intKey, shard := maple.locate(key)
	e, ok := shard.Data.Load(intKey)
	if !ok {
		return nil, false, nil
	}
	return util.CopyBytes(e.Value), true, nil
}

// Has checks if a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) Has(key string) (bool, error) {
	maple.loadMu.RLock()
	defer maple.loadMu.RUnlock()

	intKey, shard := maple.locate(key)
	_, ok := shard.Data.Load(intKey)
	return ok, nil
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save persists the database to the writer.
//
// Format (little endian):
//
//	magic[8] | version u8 | seed u64 | count u64 | { key u64 | index u64 | len u32 | value }*
//
// Thread-safety: Concurrent Set/Delete calls are allowed; entries written during Save
// may or may not be part of the snapshot.
func (maple *mapleImpl) Save(w io.Writer) error {
	maple.loadMu.RLock()
	type entryToSave struct {
		key   util.UintKey
		entry internal.Entry
	}
	var entries []entryToSave
	for _, shard := range maple.shards {
		shard.Data.Range(func(key util.UintKey, entry internal.Entry) bool {
			entries = append(entries, entryToSave{key, internal.Entry{
				Value: util.CopyBytes(entry.Value),
				Index: entry.Index,
			}})
			return true
		})
	}
	seed := maple.seed
	maple.loadMu.RUnlock()

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(mapleVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, seed); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	for _, item := range entries {
		if err := binary.Write(bw, binary.LittleEndian, uint64(item.key)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, item.entry.Index); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(item.entry.Value))); err != nil {
			return err
		}
		if _, err := bw.Write(item.entry.Value); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load restores a database from the reader. The current content is replaced
// only if the whole snapshot could be read.
//
// Thread-safety: Load blocks all other operations until it returns.
func (maple *mapleImpl) Load(r io.Reader) error {
	br := bufio.NewReader(r)

	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != mapleVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, mapleVersion)
	}

	var seed uint64
	if err := binary.Read(br, binary.LittleEndian, &seed); err != nil {
		return err
	}

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	shards := internal.NewShards(maple.numShards, createIdentityHasher())
	var maxIndex uint64
	for i := uint64(0); i < count; i++ {
		var keyUint, index uint64
		var valueLen uint32
		if err := binary.Read(br, binary.LittleEndian, &keyUint); err != nil {
			return err
		}
		if err := binary.Read(br, binary.LittleEndian, &index); err != nil {
			return err
		}
		if err := binary.Read(br, binary.LittleEndian, &valueLen); err != nil {
			return err
		}
		if valueLen > maxValueLen {
			return fmt.Errorf("invalid value length %d for entry %d", valueLen, i)
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(br, value); err != nil {
			return err
		}

		if index > maxIndex {
			maxIndex = index
		}
		key := util.UintKey(keyUint)
		internal.GetShard(key, shards).Data.Store(key, internal.Entry{Value: value, Index: index})
	}

	maple.loadMu.Lock()
	maple.shards = shards
	maple.seed = seed
	maple.currIndex.Store(0)
	maple.loadMu.Unlock()

	maple.SetWriteIdx(maxIndex)
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the database
func (maple *mapleImpl) GetInfo() db.DatabaseInfo {
	maple.loadMu.RLock()
	defer maple.loadMu.RUnlock()

	keys := 0
	sizeBytes := 0
	shardSizes := make([]int, len(maple.shards))
	for i, shard := range maple.shards {
		shard.Data.Range(func(_ util.UintKey, entry internal.Entry) bool {
			sizeBytes += len(entry.Value) + 16 // 8 bytes each for key and index
			return true
		})
		shardSizes[i] = shard.Data.Size()
		keys += shardSizes[i]
	}

	meta := &struct {
		CurrentWriteIndex uint64 `json:"current_write_index"`
		ShardCount        int    `json:"shard_count"`
		ShardSizes        []int  `json:"shard_sizes"`
	}{
		CurrentWriteIndex: maple.currIndex.Load(),
		ShardCount:        len(maple.shards),
		ShardSizes:        shardSizes,
	}

	return db.DatabaseInfo{
		SizeBytes: sizeBytes,
		Keys:      keys,
		DbType:    db.ImplMaple,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureDelete, db.FeatureHas,
			db.FeatureSave, db.FeatureLoad,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (maple *mapleImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureSave |
		db.FeatureLoad
	return supportedFeatures&feature == feature
}

// Close is a no-op, the engine holds no external resources
func (maple *mapleImpl) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Index Management
// --------------------------------------------------------------------------

// SetWriteIdx updates the current index only if the new index is greater.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (maple *mapleImpl) SetWriteIdx(newIdx uint64) {
	for {
		currIdx := maple.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if maple.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (maple *mapleImpl) WriteIdx() uint64 {
	return maple.currIndex.Load()
}
