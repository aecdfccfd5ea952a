package lstore

import (
	"errors"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/db/engines/badgerdb"
	"github.com/ValentinKolb/dBlog/lib/db/engines/maple"
	"github.com/ValentinKolb/dBlog/lib/store"
	"os"
	"path/filepath"
	"testing"
)

func mapleFactory() db.KVDB {
	return maple.NewMapleDB(&maple.DBOptions{NumShards: 4})
}

func TestInMemoryStore(t *testing.T) {
	st := NewLocalStore(mapleFactory)
	defer st.Close()

	if err := st.Set("blogData", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := st.Get("blogData")
	if err != nil || !ok || string(value) != "v1" {
		t.Fatalf("expected v1, got %q ok=%v err=%v", value, ok, err)
	}

	// every write must win over the previous one
	if err := st.Set("blogData", []byte("v2")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, _, _ = st.Get("blogData")
	if string(value) != "v2" {
		t.Errorf("expected v2, got %q", value)
	}

	if err := st.Delete("blogData"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if has, _ := st.Has("blogData"); has {
		t.Error("expected key to be gone after delete")
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot", "blog.maple")

	st, err := OpenLocalStore(mapleFactory, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Set("blogData", []byte(`{"posts":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set("other", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Delete("other"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = st.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	reopened, err := OpenLocalStore(mapleFactory, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get("blogData")
	if err != nil || !ok || string(value) != `{"posts":[]}` {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}
	if has, _ := reopened.Has("other"); has {
		t.Error("deleted key came back after reopen")
	}

	// writes after reopen must not be treated as stale
	if err := reopened.Set("blogData", []byte("new")); err != nil {
		t.Fatalf("set after reopen: %v", err)
	}
	value, _, _ = reopened.Get("blogData")
	if string(value) != "new" {
		t.Errorf("expected write after reopen to win, got %q", value)
	}
}

func TestOpenRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.maple")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := OpenLocalStore(mapleFactory, path)
	if err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCInternalError {
		t.Errorf("expected internal store error, got %v", err)
	}
}

func TestGetDBInfo(t *testing.T) {
	st := NewLocalStore(mapleFactory)
	defer st.Close()

	_ = st.Set("blogData", []byte("v"))
	info, err := st.GetDBInfo()
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.DbType != db.ImplMaple || info.Keys != 1 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestEngineFailuresAreReturned(t *testing.T) {
	engine, err := badgerdb.Open(badgerdb.InMemoryConfig())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	st := NewLocalStore(func() db.KVDB { return engine })
	if err := st.Set("blogData", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("close engine: %v", err)
	}

	isInternal := func(op string, err error) {
		t.Helper()
		var storeErr *store.Error
		if !errors.As(err, &storeErr) || storeErr.Code != store.RetCInternalError {
			t.Errorf("%s: expected internal store error, got %v", op, err)
		}
	}

	isInternal("Set", st.Set("blogData", []byte("v2")))
	isInternal("Delete", st.Delete("blogData"))

	value, ok, err := st.Get("blogData")
	isInternal("Get", err)
	if ok || value != nil {
		t.Errorf("failed Get must not report a value, got %q (found=%v)", value, ok)
	}

	_, err = st.Has("blogData")
	isInternal("Has", err)
}
