package interfaces

import (
	"context"

	"repair_costing/internal/domain/entities"
)

// IAuditSink receives audit events. Callers treat it as fire-and-forget.
type IAuditSink interface {
	Emit(ctx context.Context, event entities.AuditEvent) error
}
