package testing

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dBlog/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs the conformance test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("StaleWrites", func(t *testing.T) {
			testStaleWrites(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("LoadReplaces", func(t *testing.T) {
			testLoadReplaces(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// The helpers below report engine errors with t.Errorf so they can be used from
// worker goroutines.

func set(t testing.TB, database db.KVDB, key string, value []byte, writeIndex uint64) {
	t.Helper()
	if err := database.Set(key, value, writeIndex); err != nil {
		t.Errorf("Unexpected error during Set(%q): %v", key, err)
	}
}

func del(t testing.TB, database db.KVDB, key string, writeIndex uint64) {
	t.Helper()
	if err := database.Delete(key, writeIndex); err != nil {
		t.Errorf("Unexpected error during Delete(%q): %v", key, err)
	}
}

func get(t testing.TB, database db.KVDB, key string) ([]byte, bool) {
	t.Helper()
	value, ok, err := database.Get(key)
	if err != nil {
		t.Errorf("Unexpected error during Get(%q): %v", key, err)
	}
	return value, ok
}

func has(t testing.TB, database db.KVDB, key string) bool {
	t.Helper()
	ok, err := database.Has(key)
	if err != nil {
		t.Errorf("Unexpected error during Has(%q): %v", key, err)
	}
	return ok
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	testKey := "blogData"
	testValue1 := []byte(`{"posts":[]}`)
	testValue2 := []byte(`{"posts":[{"id":1}]}`)

	set(t, database, testKey, testValue1, 1)

	result, exists := get(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	set(t, database, testKey, testValue2, 2)

	result, exists = get(t, database, testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	if _, exists = get(t, database, "nonexistent-key"); exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrievedValue, _ := get(t, database, testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := get(t, database, testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	set(t, database, "delete-key", []byte("delete-value"), 1)
	del(t, database, "delete-key", 2)

	if _, exists := get(t, database, "delete-key"); exists {
		t.Errorf("Expected key to be gone after Delete")
	}

	// deleting a missing key must not create it
	del(t, database, "never-set", 3)
	if _, exists := get(t, database, "never-set"); exists {
		t.Errorf("Delete of a missing key must not create it")
	}

	// the key can be written again after deletion
	set(t, database, "delete-key", []byte("again"), 4)
	if v, exists := get(t, database, "delete-key"); !exists || string(v) != "again" {
		t.Errorf("Expected key to be writable after Delete, got %q (found=%v)", v, exists)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureDelete)

	if has(t, database, "has-key") {
		t.Errorf("Expected Has to be false before Set")
	}

	set(t, database, "has-key", []byte("v"), 1)
	if !has(t, database, "has-key") {
		t.Errorf("Expected Has to be true after Set")
	}

	del(t, database, "has-key", 2)
	if has(t, database, "has-key") {
		t.Errorf("Expected Has to be false after Delete")
	}
}

func testStaleWrites(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	set(t, database, "stale-key", []byte("new"), 10)
	set(t, database, "stale-key", []byte("old"), 5)

	if v, _ := get(t, database, "stale-key"); string(v) != "new" {
		t.Errorf("Expected stale write to be ignored, got %q", v)
	}

	// equal indexes are not stale
	set(t, database, "stale-key", []byte("same"), 10)
	if v, _ := get(t, database, "stale-key"); string(v) != "same" {
		t.Errorf("Expected write with equal index to be applied, got %q", v)
	}

	if idx := database.WriteIdx(); idx != 10 {
		t.Errorf("Expected write index 10, got %d", idx)
	}
	database.SetWriteIdx(3)
	if idx := database.WriteIdx(); idx != 10 {
		t.Errorf("SetWriteIdx must not decrease the index, got %d", idx)
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	database2 := factory()

	defer database.Close()
	defer database2.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureSave|db.FeatureLoad)

	numEntries := 200
	originalKeys := make([]string, numEntries)
	originalValues := make([][]byte, numEntries)

	for i := 0; i < numEntries; i++ {
		key := fmt.Sprintf("save-load-test-key-%d", i)
		value := []byte(fmt.Sprintf("save-load-test-value-%d", i))
		originalKeys[i] = key
		originalValues[i] = value

		set(t, database, key, value, uint64(i+1))
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}

	if err := database2.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	for i := 0; i < numEntries; i++ {
		actualValue, exists := get(t, database2, originalKeys[i])
		if !exists {
			t.Errorf("Key %s not found after Load", originalKeys[i])
			continue
		}
		if !bytes.Equal(actualValue, originalValues[i]) {
			t.Errorf("Value mismatch for key %s: expected %s, got %s", originalKeys[i], originalValues[i], actualValue)
		}
	}

	// the source database is untouched by Save
	for i := 0; i < numEntries; i++ {
		if _, exists := get(t, database, originalKeys[i]); !exists {
			t.Errorf("Key %s not found in original database", originalKeys[i])
		}
	}
}

func testLoadReplaces(t *testing.T, factory DBFactory) {
	source := factory()
	target := factory()

	defer source.Close()
	defer target.Close()

	requireFeature(t, source, db.FeatureSet|db.FeatureGet|db.FeatureSave|db.FeatureLoad)

	set(t, source, "kept", []byte("from-snapshot"), 1)
	set(t, target, "dropped", []byte("before-load"), 1)

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("Unexpected error during Save: %v", err)
	}
	if err := target.Load(&buf); err != nil {
		t.Fatalf("Unexpected error during Load: %v", err)
	}

	if _, exists := get(t, target, "dropped"); exists {
		t.Errorf("Load must discard entries that are not part of the snapshot")
	}
	if v, exists := get(t, target, "kept"); !exists || string(v) != "from-snapshot" {
		t.Errorf("Expected snapshot entry after Load, got %q (found=%v)", v, exists)
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	emptyValueKey := "empty-value-key"
	set(t, database, emptyValueKey, []byte{}, 1)

	result, exists := get(t, database, emptyValueKey)
	if !exists {
		t.Errorf("Key for empty value not found after Set")
	} else if len(result) != 0 {
		t.Errorf("Empty value mismatch: %v", result)
	}

	nilValueKey := "nil-value-key"
	set(t, database, nilValueKey, nil, 2)

	result, exists = get(t, database, nilValueKey)
	if !exists {
		t.Errorf("Key for nil value not found after Set")
	} else if len(result) != 0 {
		t.Errorf("Nil value resulted in non-empty value: %v", result)
	}

	largeKey := string(bytes.Repeat([]byte("k"), 1000))
	set(t, database, largeKey, []byte("value for large key"), 3)
	if v, exists := get(t, database, largeKey); !exists || string(v) != "value for large key" {
		t.Errorf("Value mismatch for large key")
	}

	largeValue := make([]byte, 4*1024*1024)
	for i := range largeValue {
		largeValue[i] = byte(i % 256)
	}
	set(t, database, "large-value-key", largeValue, 4)
	if v, exists := get(t, database, "large-value-key"); !exists || !bytes.Equal(v, largeValue) {
		t.Errorf("Large value mismatch (found=%v, size=%d)", exists, len(v))
	}
}

func testConcurrentAccess(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("worker-%d-key-%d", w, i)
				set(t, database, key, []byte(key), uint64(w*perWorker+i+1))
				if _, ok := get(t, database, key); !ok {
					t.Errorf("Key %s not found right after Set", key)
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			key := fmt.Sprintf("worker-%d-key-%d", w, i)
			if v, ok := get(t, database, key); !ok || string(v) != key {
				t.Errorf("Expected %s to hold its own key, got %q", key, v)
			}
		}
	}
}

func testInfo(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)

	set(t, database, "info-a", []byte("aaaa"), 1)
	set(t, database, "info-b", []byte("bbbb"), 2)

	info := database.GetInfo()
	if info.Keys != 2 {
		t.Errorf("Expected 2 keys in info, got %d", info.Keys)
	}
	if info.DbType == "" {
		t.Errorf("Expected a db type in info")
	}
	if len(info.SupportedFeatures) == 0 {
		t.Errorf("Expected supported features in info")
	}
}
