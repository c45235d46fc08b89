package secauth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// emitEvent records one security event in the bounded trail and forwards it
// to the export dispatcher when a sink is configured. An empty actor is
// attributed to SYSTEM.
func (e *Engine) emitEvent(typ EventType, actor string, success bool, details map[string]string) {
	if actor == "" {
		actor = "SYSTEM"
	}
	event := SecurityEvent{
		ID:        uuid.NewString(),
		Timestamp: e.clock.Now(),
		Type:      typ,
		Actor:     actor,
		Success:   success,
		Details:   details,
	}

	e.auditLog.Append(event)
	e.metrics.Inc(MetricEventLogged)

	if e.audit != nil {
		e.audit.Emit(context.Background(), event)
	}
}

// GetAuditLog returns the retained events with a timestamp in [from, to],
// ascending. The bounded trail evicts oldest-first, so very old events may
// already be gone.
func (e *Engine) GetAuditLog(from, to time.Time) []SecurityEvent {
	return e.auditLog.Query(from, to)
}

// AuditLen reports how many events the bounded trail currently retains.
func (e *Engine) AuditLen() int {
	return e.auditLog.Len()
}
