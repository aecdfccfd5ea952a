package lstore

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var log = logger.GetLogger("store")

type storeImpl struct {
	db    db.KVDB
	index atomic.Uint64

	// snapshotPath is empty when the store is not persisted
	snapshotPath string
	snapshotMu   sync.Mutex
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works on a single node.
// Nothing is persisted beyond what the engine itself keeps.
func NewLocalStore(factory store.DBFactory) store.IStore {
	s := &storeImpl{
		db: factory(),
	}
	s.index.Store(s.db.WriteIdx())
	return s
}

// OpenLocalStore creates a local store whose database is written to snapshotPath
// after every successful write. If the snapshot file already exists it is loaded
// into the fresh database first.
func OpenLocalStore(factory store.DBFactory, snapshotPath string) (store.IStore, error) {
	database := factory()
	if !database.SupportsFeature(db.FeatureSave | db.FeatureLoad) {
		_ = database.Close()
		return nil, store.NewError(store.RetCUnsupportedOperation, "snapshot persistence requires Save and Load support")
	}

	s := &storeImpl{
		db:           database,
		snapshotPath: snapshotPath,
	}

	if err := s.loadSnapshot(); err != nil {
		_ = database.Close()
		return nil, err
	}
	s.index.Store(s.db.WriteIdx())
	return s, nil
}

// incAndGetIndex increments the index and returns the new value.
// It is used to ensure that each write operation has a unique index.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetIndex() uint64 {
	return s.index.Add(1)
}

// --------------------------------------------------------------------------
// Snapshot handling
// --------------------------------------------------------------------------

func (s *storeImpl) loadSnapshot() error {
	f, err := os.Open(s.snapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("no snapshot at %s, starting empty", s.snapshotPath)
		return nil
	}
	if err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("open snapshot: %v", err))
	}
	defer f.Close()

	if err := s.db.Load(bufio.NewReader(f)); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("load snapshot %s: %v", s.snapshotPath, err))
	}
	log.Debugf("loaded snapshot %s (write index %d)", s.snapshotPath, s.db.WriteIdx())
	return nil
}

// persist writes the database to a temporary file next to the snapshot and renames it
// over the old one, so a crash never leaves a half written snapshot behind.
//
// Thread-safety: concurrent writers are serialized by snapshotMu.
func (s *storeImpl) persist() error {
	if s.snapshotPath == "" {
		return nil
	}

	s.snapshotMu.Lock()
	defer s.snapshotMu.Unlock()

	dir := filepath.Dir(s.snapshotPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("create snapshot dir: %v", err))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.snapshotPath)+".*.tmp")
	if err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("create snapshot: %v", err))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if err := s.db.Save(w); err != nil {
		_ = tmp.Close()
		return store.NewError(store.RetCInternalError, fmt.Sprintf("write snapshot: %v", err))
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return store.NewError(store.RetCInternalError, fmt.Sprintf("flush snapshot: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("close snapshot: %v", err))
	}
	if err := os.Rename(tmpName, s.snapshotPath); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("replace snapshot: %v", err))
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	if !s.db.SupportsFeature(db.FeatureSet) {
		return store.NewError(store.RetCUnsupportedOperation, "Set operation is not supported")
	}
	if err := s.db.Set(key, value, s.incAndGetIndex()); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("set: %v", err))
	}
	return s.persist()
}

func (s *storeImpl) Delete(key string) error {
	if !s.db.SupportsFeature(db.FeatureDelete) {
		return store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}
	if err := s.db.Delete(key, s.incAndGetIndex()); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("delete: %v", err))
	}
	return s.persist()
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	if !s.db.SupportsFeature(db.FeatureGet) {
		return nil, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	val, ok, err := s.db.Get(key)
	if err != nil {
		return nil, false, store.NewError(store.RetCInternalError, fmt.Sprintf("get: %v", err))
	}
	return val, ok, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	if !s.db.SupportsFeature(db.FeatureHas) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Has operation is not supported")
	}
	ok, err := s.db.Has(key)
	if err != nil {
		return false, store.NewError(store.RetCInternalError, fmt.Sprintf("has: %v", err))
	}
	return ok, nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

func (s *storeImpl) Close() error {
	if err := s.db.Close(); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("close database: %v", err))
	}
	return nil
}
