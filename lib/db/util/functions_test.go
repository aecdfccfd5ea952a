package util

import "testing"

func TestHashStringSeedChangesHash(t *testing.T) {
	a := HashString("blogData", 1)
	b := HashString("blogData", 2)
	if a == b {
		t.Errorf("expected different hashes for different seeds, got %d twice", a)
	}
	if HashString("blogData", 1) != a {
		t.Errorf("hash is not deterministic")
	}
}

func TestShardForStaysInRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		key := HashString(string(rune('a'+i%26))+string(rune(i)), 42)
		if idx := ShardFor(key, 7); idx < 0 || idx >= 7 {
			t.Fatalf("shard index %d out of range", idx)
		}
	}
}

func TestCopyBytes(t *testing.T) {
	src := []byte("value")
	dst := CopyBytes(src)
	dst[0] = 'X'
	if string(src) != "value" {
		t.Errorf("CopyBytes must not alias the source, got %q", src)
	}
	if c := CopyBytes(nil); c == nil || len(c) != 0 {
		t.Errorf("expected empty non-nil slice for nil input, got %#v", c)
	}
}
