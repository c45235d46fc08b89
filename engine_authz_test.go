package secauth

import (
	"errors"
	"testing"
)

func TestCheckResourceAccess(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "alice", "s3cret", "OPERATOR")

	if err := e.GrantRolePermission("OPERATOR", "pipeline", "execute"); err != nil {
		t.Fatalf("GrantRolePermission: %v", err)
	}

	if err := e.CheckResourceAccess(id, "pipeline", "execute"); err != nil {
		t.Errorf("CheckResourceAccess by principal id = %v, want nil", err)
	}
	if err := e.CheckResourceAccess("alice", "pipeline", "execute"); err != nil {
		t.Errorf("CheckResourceAccess by username = %v, want nil", err)
	}
	if err := e.CheckResourceAccess(id, "pipeline", "delete"); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("ungranted operation = %v, want ErrInsufficientPermission", err)
	}
	if err := e.CheckResourceAccess(id, "pipeline", "launch"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("unknown operation = %v, want ErrInvalidOperation", err)
	}
}

func TestCheckResourceAccessComponentFallback(t *testing.T) {
	e, _ := newTestEngine(t)

	if err := e.CheckResourceAccess("sensor-7", "telemetry", "write"); !errors.Is(err, ErrInsufficientPermission) {
		t.Fatalf("unregistered component = %v, want ErrInsufficientPermission", err)
	}

	// Unregistered identities resolve through the COMPONENT role.
	if err := e.GrantRolePermission("COMPONENT", "telemetry", "write"); err != nil {
		t.Fatalf("GrantRolePermission: %v", err)
	}
	if err := e.CheckResourceAccess("sensor-7", "telemetry", "write"); err != nil {
		t.Errorf("component access after grant = %v, want nil", err)
	}
}

func TestGrantRevokeRoundTripIsSynchronous(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "alice", "s3cret", "OPERATOR")

	// Warm the cache with a denial, then grant: the next check must see the
	// grant immediately.
	e.CheckResourceAccess(id, "jobs", "create")
	if err := e.GrantRolePermission("OPERATOR", "jobs", "create"); err != nil {
		t.Fatalf("GrantRolePermission: %v", err)
	}
	if err := e.CheckResourceAccess(id, "jobs", "create"); err != nil {
		t.Fatalf("check after grant = %v, want nil", err)
	}

	// And the reverse: a revoke must never leave a cached allow behind.
	if err := e.RevokeRolePermission("OPERATOR", "jobs", "create"); err != nil {
		t.Fatalf("RevokeRolePermission: %v", err)
	}
	if err := e.CheckResourceAccess(id, "jobs", "create"); !errors.Is(err, ErrInsufficientPermission) {
		t.Fatalf("check after revoke = %v, want ErrInsufficientPermission", err)
	}
}

func TestCheckResourceAccessAllOperation(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "root", "pw", "SUPER")

	for _, op := range []string{"read", "write", "create", "delete", "list", "execute", "admin"} {
		if err := e.GrantRolePermission("SUPER", "vault", op); err != nil {
			t.Fatalf("GrantRolePermission(%s): %v", op, err)
		}
	}

	if err := e.CheckResourceAccess(id, "vault", "all"); err != nil {
		t.Errorf("ALL with every concrete grant = %v, want nil", err)
	}

	// Dropping one concrete operation breaks ALL.
	if err := e.RevokeRolePermission("SUPER", "vault", "delete"); err != nil {
		t.Fatalf("RevokeRolePermission: %v", err)
	}
	if err := e.CheckResourceAccess(id, "vault", "all"); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("ALL missing one operation = %v, want ErrInsufficientPermission", err)
	}
	// The individual grants still hold.
	if err := e.CheckResourceAccess(id, "vault", "read"); err != nil {
		t.Errorf("read after delete revoke = %v, want nil", err)
	}
}

func TestPermissionCacheServesRepeatedChecks(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "alice", "s3cret", "OPERATOR")
	if err := e.GrantRolePermission("OPERATOR", "jobs", "read"); err != nil {
		t.Fatalf("GrantRolePermission: %v", err)
	}

	e.CheckResourceAccess(id, "jobs", "read")
	e.CheckResourceAccess(id, "jobs", "read")

	snap := e.MetricsSnapshot()
	if got := snap.Counters[MetricPermissionCacheHit]; got != 1 {
		t.Errorf("MetricPermissionCacheHit = %d, want 1", got)
	}
	if got := snap.Counters[MetricAccessGranted]; got != 2 {
		t.Errorf("MetricAccessGranted = %d, want 2", got)
	}
}

func TestSessionGrantAndRevokePermission(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "alice", "s3cret", "OPERATOR")
	ctx := authenticate(t, e, "alice", "s3cret")

	if err := e.GrantPermission(ctx, "reports", "read"); err != nil {
		t.Fatalf("GrantPermission: %v", err)
	}
	// The grant lands on the session's primary role.
	if err := e.CheckResourceAccess(id, "reports", "read"); err != nil {
		t.Errorf("check after session grant = %v, want nil", err)
	}
	// The live session's own snapshot stays frozen.
	if e.HasPermission(ctx, "reports:read") {
		t.Error("session snapshot must not grow after login")
	}

	if err := e.RevokePermission(ctx, "reports", "read"); err != nil {
		t.Fatalf("RevokePermission: %v", err)
	}
	if err := e.CheckResourceAccess(id, "reports", "read"); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("check after session revoke = %v, want ErrInsufficientPermission", err)
	}

	if err := e.GrantPermission(nil, "reports", "read"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("GrantPermission(nil) = %v, want ErrNoActiveSession", err)
	}
}

func TestCyclicHierarchyResolves(t *testing.T) {
	e, _ := newTestEngine(t)
	id := registerUser(t, e, "alice", "s3cret", "A")

	if err := e.GrantRolePermission("B", "docs", "read"); err != nil {
		t.Fatalf("GrantRolePermission: %v", err)
	}
	// Misconfigured cycle A -> B -> A: resolution must terminate.
	if err := e.SetRoleParents("A", []string{"B"}); err != nil {
		t.Fatalf("SetRoleParents: %v", err)
	}
	if err := e.SetRoleParents("B", []string{"A"}); err != nil {
		t.Fatalf("SetRoleParents: %v", err)
	}

	if err := e.CheckResourceAccess(id, "docs", "read"); err != nil {
		t.Errorf("access through cyclic hierarchy = %v, want nil", err)
	}
	if err := e.CheckResourceAccess(id, "docs", "write"); !errors.Is(err, ErrInsufficientPermission) {
		t.Errorf("ungranted through cycle = %v, want ErrInsufficientPermission", err)
	}
}
