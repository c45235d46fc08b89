package cache

import "testing"

func TestPermissionCachePutGet(t *testing.T) {
	c := NewPermissionCache()
	key := PermissionKey("ctx-1", "docs", "read")

	if _, ok := c.Get(key); ok {
		t.Error("empty cache must miss")
	}

	c.Put(key, true, c.Generation())
	granted, ok := c.Get(key)
	if !ok || !granted {
		t.Errorf("Get = %v, %v; want true, true", granted, ok)
	}

	// Denials are cached too.
	denied := PermissionKey("ctx-1", "docs", "write")
	c.Put(denied, false, c.Generation())
	granted, ok = c.Get(denied)
	if !ok || granted {
		t.Errorf("Get = %v, %v; want false, true", granted, ok)
	}
}

func TestPermissionCacheInvalidate(t *testing.T) {
	c := NewPermissionCache()
	key := PermissionKey("ctx-1", "docs", "read")

	c.Put(key, true, c.Generation())
	c.Invalidate()

	if _, ok := c.Get(key); ok {
		t.Error("invalidated cache must miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after Invalidate, want 0", c.Len())
	}
}

func TestPermissionCacheRejectsStaleGeneration(t *testing.T) {
	c := NewPermissionCache()
	key := PermissionKey("ctx-1", "docs", "read")

	// A resolution that began before an invalidation must not land: the
	// value it computed may reflect the pre-mutation graph.
	gen := c.Generation()
	c.Invalidate()
	c.Put(key, true, gen)

	if _, ok := c.Get(key); ok {
		t.Error("write with a stale generation must be discarded")
	}

	// A write against the current generation lands normally.
	c.Put(key, true, c.Generation())
	if _, ok := c.Get(key); !ok {
		t.Error("write with the current generation must land")
	}
}

func TestPermissionKeySeparatesComponents(t *testing.T) {
	// The separator keeps ("a", "b:c") and ("a:b", "c") apart.
	if PermissionKey("a", "b", "c") == PermissionKey("a:b", "c", "") {
		t.Error("keys with shifted components must differ")
	}
}
