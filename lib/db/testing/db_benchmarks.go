package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/dBlog/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementation.
// The value sizes mirror realistic blog datasets (a few KB up to ~1 MB).
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		for _, size := range []int{4 * 1024, 64 * 1024, 1024 * 1024} {
			b.Run(fmt.Sprintf("Set/%dKB", size/1024), func(b *testing.B) {
				benchmarkSet(b, factory(), size)
			})
			b.Run(fmt.Sprintf("Get/%dKB", size/1024), func(b *testing.B) {
				benchmarkGet(b, factory(), size)
			})
		}

		b.Run("SaveLoad", func(b *testing.B) {
			benchmarkSaveLoad(b, factory)
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// benchmarkSet overwrites a single slot, which is how the blog uses the engine
func benchmarkSet(b *testing.B, database db.KVDB, size int) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	requireFeature(b, database, db.FeatureSet)

	value := bytes.Repeat([]byte("x"), size)
	b.SetBytes(int64(size))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set(b, database, "blogData", value, uint64(i+1))
	}
}

func benchmarkGet(b *testing.B, database db.KVDB, size int) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	requireFeature(b, database, db.FeatureSet|db.FeatureGet)

	set(b, database, "blogData", bytes.Repeat([]byte("x"), size), 1)
	b.SetBytes(int64(size))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := get(b, database, "blogData"); !ok {
			b.Fatal("key not found")
		}
	}
}

func benchmarkSaveLoad(b *testing.B, factory DBFactory) {
	database := factory()
	b.Cleanup(func() {
		_ = database.Close()
	})

	requireFeature(b, database, db.FeatureSet|db.FeatureSave|db.FeatureLoad)

	for i := 0; i < 1000; i++ {
		set(b, database, fmt.Sprintf("key-%d", i), bytes.Repeat([]byte("v"), 256), uint64(i+1))
	}

	var snapshot bytes.Buffer
	if err := database.Save(&snapshot); err != nil {
		b.Fatal(err)
	}

	b.Run("Save", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			if err := database.Save(&buf); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Load", func(b *testing.B) {
		target := factory()
		defer target.Close()
		for i := 0; i < b.N; i++ {
			if err := target.Load(bytes.NewReader(snapshot.Bytes())); err != nil {
				b.Fatal(err)
			}
		}
	})
}
