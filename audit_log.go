package secauth

import (
	"sync"
	"time"
)

// auditLog is the bounded, append-only, time-queryable event trail. Appends
// beyond the retention bound evict the oldest entry. Readers get a copied
// snapshot, never a view into the live slice.
type auditLog struct {
	mu     sync.RWMutex
	max    int
	events []SecurityEvent
}

func newAuditLog(max int) *auditLog {
	if max <= 0 {
		max = 1
	}
	return &auditLog{
		max:    max,
		events: make([]SecurityEvent, 0, max),
	}
}

func (l *auditLog) Append(event SecurityEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.events) >= l.max {
		// FIFO eviction: retention is by age, not by query recency.
		n := copy(l.events, l.events[1:])
		l.events = l.events[:n]
	}
	l.events = append(l.events, event)
}

// Query returns events with timestamps in [from, to], ascending. Events are
// appended under a single clock, so insertion order is timestamp order.
func (l *auditLog) Query(from, to time.Time) []SecurityEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []SecurityEvent
	for _, event := range l.events {
		if event.Timestamp.Before(from) || event.Timestamp.After(to) {
			continue
		}
		out = append(out, event)
	}
	return out
}

func (l *auditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
