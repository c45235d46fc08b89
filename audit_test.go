package secauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func eventAt(ts time.Time, actor string) SecurityEvent {
	return SecurityEvent{
		ID:        fmt.Sprintf("ev-%d", ts.UnixNano()),
		Timestamp: ts,
		Type:      EventAccessGranted,
		Actor:     actor,
		Success:   true,
	}
}

func TestAuditLogQueryRange(t *testing.T) {
	l := newAuditLog(100)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		l.Append(eventAt(base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("u%d", i)))
	}

	got := l.Query(base.Add(time.Minute), base.Add(3*time.Minute))
	if len(got) != 3 {
		t.Fatalf("Query returned %d events, want 3 (bounds inclusive)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Error("Query results must be ascending by timestamp")
		}
	}
	if got[0].Actor != "u1" || got[2].Actor != "u3" {
		t.Errorf("Query window wrong: got %s..%s", got[0].Actor, got[2].Actor)
	}

	if got := l.Query(base.Add(time.Hour), base.Add(2*time.Hour)); len(got) != 0 {
		t.Errorf("empty window returned %d events", len(got))
	}
}

func TestAuditLogBoundedFIFO(t *testing.T) {
	l := newAuditLog(3)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		l.Append(eventAt(base.Add(time.Duration(i)*time.Second), fmt.Sprintf("u%d", i)))
	}

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want the configured bound 3", l.Len())
	}
	got := l.Query(base, base.Add(time.Minute))
	if got[0].Actor != "u2" {
		t.Errorf("oldest retained = %s, want u2 (u0 and u1 evicted first)", got[0].Actor)
	}
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(4)
	ev := eventAt(time.Now(), "alice")

	sink.Emit(context.Background(), ev)

	select {
	case got := <-sink.Events():
		if got.Actor != "alice" {
			t.Errorf("received %+v", got)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), eventAt(time.Now(), "alice"))

	var got SecurityEvent
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("sink output is not one JSON event: %v", err)
	}
	if got.Actor != "alice" || got.Type != EventAccessGranted {
		t.Errorf("decoded %+v", got)
	}
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{
		MaxEvents:  100,
		BufferSize: 8,
		DropIfFull: true,
	}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), eventAt(time.Now(), fmt.Sprintf("u%d", i)))
	}
	// Close waits for buffered events to reach the sink.
	d.Close()

	delivered := 0
	for {
		select {
		case <-sink.Events():
			delivered++
			continue
		default:
		}
		break
	}
	if delivered != 5 {
		t.Errorf("delivered %d events, want 5", delivered)
	}
	if d.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0", d.Dropped())
	}
}

func TestDispatcherNilWithoutSink(t *testing.T) {
	if d := newAuditDispatcher(AuditConfig{BufferSize: 8}, nil); d != nil {
		t.Error("no sink configured should mean no dispatcher")
	}
}

func TestEngineAuditTrailIsBounded(t *testing.T) {
	e, clock := newTestEngine(t)
	registerUser(t, e, "alice", "s3cret", "USER")

	// Overflow the trail well past the configured bound.
	max := e.config.Audit.MaxEvents
	for i := 0; i < max+50; i++ {
		e.Authenticate("alice", "wrong-secret-no-lockout-reset")
		e.lockouts.Clear("alice")
	}

	if got := e.AuditLen(); got != max {
		t.Errorf("AuditLen = %d, want bound %d", got, max)
	}
	events := e.GetAuditLog(time.Time{}, clock.Now())
	if len(events) != max {
		t.Errorf("GetAuditLog returned %d, want %d", len(events), max)
	}
}
