package badgerdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/dgraph-io/badger/v4"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"os"
	"sync/atomic"
)

var log = logger.GetLogger("badger")

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Config holds configuration for a BadgerDB backed engine.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Quiet disables BadgerDB's internal logging.
	Quiet bool

	// MaxPendingWrites bounds the batch size used by Load.
	MaxPendingWrites int
}

// DefaultConfig returns the configuration used by the CLI: durable, synchronous writes.
func DefaultConfig(path string) Config {
	return Config{
		Path:             path,
		SyncWrites:       true,
		Quiet:            true,
		MaxPendingWrites: 256,
	}
}

// InMemoryConfig returns a configuration optimized for testing.
func InMemoryConfig() Config {
	return Config{
		InMemory:         true,
		Quiet:            true,
		MaxPendingWrites: 256,
	}
}

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

// indexLen is the size of the write index prefix stored in front of every value
const indexLen = 8

type badgerImpl struct {
	bdb              *badger.DB
	currIndex        atomic.Uint64
	maxPendingWrites int
}

// Open creates and opens a BadgerDB backed db.KVDB with the given configuration.
// The caller must call Close() when done.
func Open(cfg Config) (db.KVDB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Quiet {
		opts = opts.WithLogger(nil)
	} else {
		// dragonboat's ILogger already satisfies badger.Logger
		opts = opts.WithLogger(log)
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	impl := &badgerImpl{
		bdb:              bdb,
		maxPendingWrites: cfg.MaxPendingWrites,
	}
	if impl.maxPendingWrites <= 0 {
		impl.maxPendingWrites = 256
	}

	idx, err := impl.scanMaxIndex()
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("read write index: %w", err)
	}
	impl.currIndex.Store(idx)

	return impl, nil
}

// --------------------------------------------------------------------------
// Value encoding
// --------------------------------------------------------------------------

func encodeValue(value []byte, writeIndex uint64) []byte {
	buf := make([]byte, indexLen+len(value))
	binary.LittleEndian.PutUint64(buf, writeIndex)
	copy(buf[indexLen:], value)
	return buf
}

func decodeIndex(raw []byte) uint64 {
	if len(raw) < indexLen {
		return 0
	}
	return binary.LittleEndian.Uint64(raw[:indexLen])
}

// update runs fn in a read-write transaction and retries it on conflicts with
// concurrent writers
func (b *badgerImpl) update(fn func(txn *badger.Txn) error) error {
	for {
		err := b.bdb.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
}

// storedIndex returns the write index of the stored entry for key, if any
func storedIndex(txn *badger.Txn, key []byte) (uint64, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var idx uint64
	err = item.Value(func(val []byte) error {
		idx = decodeIndex(val)
		return nil
	})
	return idx, true, err
}

// scanMaxIndex walks all entries and returns the highest stored write index
func (b *badgerImpl) scanMaxIndex() (uint64, error) {
	var maxIndex uint64
	err := b.bdb.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				if idx := decodeIndex(val); idx > maxIndex {
					maxIndex = idx
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return maxIndex, err
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set stores the value; writes older than the stored entry are ignored.
func (b *badgerImpl) Set(key string, value []byte, writeIndex uint64) error {
	b.SetWriteIdx(writeIndex)
	k := []byte(key)
	err := b.update(func(txn *badger.Txn) error {
		idx, found, err := storedIndex(txn, k)
		if err != nil {
			return err
		}
		if found && writeIndex < idx {
			return nil
		}
		return txn.Set(k, encodeValue(value, writeIndex))
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (b *badgerImpl) Delete(key string, writeIndex uint64) error {
	b.SetWriteIdx(writeIndex)
	k := []byte(key)
	err := b.update(func(txn *badger.Txn) error {
		idx, found, err := storedIndex(txn, k)
		if err != nil || !found || writeIndex < idx {
			return err
		}
		return txn.Delete(k)
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

func (b *badgerImpl) Get(key string) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := b.bdb.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found = true
		if len(raw) >= indexLen {
			value = raw[indexLen:]
		} else {
			value = []byte{}
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, found, nil
}

func (b *badgerImpl) Has(key string) (bool, error) {
	var found bool
	err := b.bdb.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil {
		return false, fmt.Errorf("has %q: %w", key, err)
	}
	return found, nil
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes a full BadgerDB backup to w
func (b *badgerImpl) Save(w io.Writer) error {
	_, err := b.bdb.Backup(w, 0)
	return err
}

// Load drops all entries and restores a backup written by Save
func (b *badgerImpl) Load(r io.Reader) error {
	if err := b.bdb.DropAll(); err != nil {
		return fmt.Errorf("drop entries before load: %w", err)
	}
	if err := b.bdb.Load(r, b.maxPendingWrites); err != nil {
		return err
	}
	idx, err := b.scanMaxIndex()
	if err != nil {
		return err
	}
	b.currIndex.Store(0)
	b.SetWriteIdx(idx)
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

func (b *badgerImpl) GetInfo() db.DatabaseInfo {
	keys := 0
	err := b.bdb.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys++
		}
		return nil
	})
	if err != nil {
		log.Warningf("counting keys failed: %v", err)
	}

	lsm, vlog := b.bdb.Size()
	meta := &struct {
		CurrentWriteIndex uint64 `json:"current_write_index"`
		LSMBytes          int64  `json:"lsm_bytes"`
		VLogBytes         int64  `json:"vlog_bytes"`
		Dir               string `json:"dir,omitempty"`
	}{
		CurrentWriteIndex: b.currIndex.Load(),
		LSMBytes:          lsm,
		VLogBytes:         vlog,
		Dir:               b.bdb.Opts().Dir,
	}

	return db.DatabaseInfo{
		SizeBytes: int(lsm + vlog),
		Keys:      keys,
		DbType:    db.ImplBadger,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureDelete, db.FeatureHas,
			db.FeatureSave, db.FeatureLoad,
		},
		Metadata: meta,
	}
}

func (b *badgerImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureSave |
		db.FeatureLoad
	return supportedFeatures&feature == feature
}

func (b *badgerImpl) Close() error {
	return b.bdb.Close()
}

// --------------------------------------------------------------------------
// Index Management
// --------------------------------------------------------------------------

func (b *badgerImpl) SetWriteIdx(newIdx uint64) {
	for {
		currIdx := b.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if b.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

func (b *badgerImpl) WriteIdx() uint64 {
	return b.currIndex.Load()
}
