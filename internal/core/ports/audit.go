package ports

import (
	"context"

	"github.com/oles/exam-system/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// SubmissionGuard serialises submissions sharing an idempotency key.
//
// Reserve claims the key before scoring. When the key is already taken it
// reports reserved=false together with the stored result id, or an empty id
// while the first submission is still being scored. Complete records the
// result of a reservation and Release abandons one.
type SubmissionGuard interface {
	Reserve(ctx context.Context, username, examID, key string) (resultID string, reserved bool, err error)
	Complete(ctx context.Context, username, examID, key, resultID string) error
	Release(ctx context.Context, username, examID, key string) error
}
