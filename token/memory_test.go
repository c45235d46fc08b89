package token

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func testRecord(clock clockwork.Clock, id string, validity time.Duration) Record {
	now := clock.Now()
	return Record{
		ID:          id,
		PrincipalID: "p-1",
		Username:    "alice",
		Permissions: []string{"docs:read", "public:view"},
		IssuedAt:    now,
		ExpiresAt:   now.Add(validity),
		LastAccess:  now,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)

	if err := s.Save(testRecord(clock, "t1", time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := s.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Username != "alice" || len(rec.Permissions) != 2 {
		t.Errorf("Get returned %+v", rec)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	s.Save(testRecord(clock, "t1", time.Hour))

	clock.Advance(time.Hour + time.Second)

	if _, err := s.Get("t1"); !errors.Is(err, ErrExpired) {
		t.Fatalf("Get past expiry = %v, want ErrExpired", err)
	}
	// Expiry detection evicted the record; a repeat is NotFound and cheap.
	if _, err := s.Get("t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat Get = %v, want ErrNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after eviction, want 0", s.Len())
	}
}

func TestMemoryStoreTouch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	s.Save(testRecord(clock, "t1", time.Hour))

	clock.Advance(10 * time.Minute)
	if err := s.Touch("t1"); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	rec, err := s.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.LastAccess.Equal(clock.Now()) {
		t.Errorf("LastAccess = %v, want %v", rec.LastAccess, clock.Now())
	}

	// Touch refreshes last access only, never the expiry instant.
	clock.Advance(51 * time.Minute)
	if _, err := s.Get("t1"); !errors.Is(err, ErrExpired) {
		t.Errorf("Get = %v, want ErrExpired despite touch", err)
	}

	if err := s.Touch("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Touch(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	s.Save(testRecord(clock, "t1", time.Hour))

	rec, err := s.Delete("t1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Username != "alice" {
		t.Errorf("Delete returned %+v, want the removed record", rec)
	}
	if _, err := s.Delete("t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	// Delete works on an already-expired record too.
	s.Save(testRecord(clock, "t2", time.Minute))
	clock.Advance(2 * time.Minute)
	if _, err := s.Delete("t2"); err != nil {
		t.Errorf("Delete of expired record = %v, want nil", err)
	}
}

func TestMemoryStorePurge(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	s.Save(testRecord(clock, "t1", time.Hour))
	s.Save(testRecord(clock, "t2", time.Hour))

	if err := s.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after Purge, want 0", s.Len())
	}
}

func TestMemoryStoreGetCopiesPermissions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStore(clock)
	s.Save(testRecord(clock, "t1", time.Hour))

	first, _ := s.Get("t1")
	first.Permissions[0] = "tampered"

	second, _ := s.Get("t1")
	if second.Permissions[0] != "docs:read" {
		t.Error("Get must return a copy; the stored snapshot was mutated")
	}
}
