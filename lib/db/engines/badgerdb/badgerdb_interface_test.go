package badgerdb

import (
	"github.com/ValentinKolb/dBlog/lib/db"
	dbtesting "github.com/ValentinKolb/dBlog/lib/db/testing"
	"testing"
)

func mustOpen(t testing.TB, cfg Config) db.KVDB {
	t.Helper()
	database, err := Open(cfg)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	return database
}

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BadgerDB", func() db.KVDB {
		return mustOpen(t, InMemoryConfig())
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "BadgerDB", func() db.KVDB {
		return mustOpen(b, InMemoryConfig())
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestReopenKeepsDataAndIndex(t *testing.T) {
	dir := t.TempDir()

	database := mustOpen(t, DefaultConfig(dir))
	if err := database.Set("blogData", []byte(`{"posts":[]}`), 7); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := mustOpen(t, DefaultConfig(dir))
	defer reopened.Close()

	v, ok, err := reopened.Get("blogData")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || string(v) != `{"posts":[]}` {
		t.Fatalf("expected value to survive reopen, got %q (found=%v)", v, ok)
	}
	if idx := reopened.WriteIdx(); idx != 7 {
		t.Errorf("expected write index 7 after reopen, got %d", idx)
	}
}

func TestClosedEngineReportsErrors(t *testing.T) {
	database := mustOpen(t, InMemoryConfig())
	if err := database.Set("blogData", []byte("v1"), 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := database.Set("blogData", []byte("v2"), 2); err == nil {
		t.Error("expected Set on a closed engine to fail")
	}
	if err := database.Delete("blogData", 3); err == nil {
		t.Error("expected Delete on a closed engine to fail")
	}
	// a failed read must not look like a missing key
	if _, ok, err := database.Get("blogData"); err == nil {
		t.Errorf("expected Get on a closed engine to fail, got found=%v", ok)
	}
	if _, err := database.Has("blogData"); err == nil {
		t.Error("expected Has on a closed engine to fail")
	}
}
