package domain

import "time"

// AuditKind classifies audit trail entries.
type AuditKind string

const (
	AuditLoginSucceeded AuditKind = "login_succeeded"
	AuditLoginFailed    AuditKind = "login_failed"
	AuditRegistered     AuditKind = "registered"
	AuditExamSubmitted  AuditKind = "exam_submitted"
)

// AuditEvent is an append-only record of a security or grading action.
type AuditEvent struct {
	ID         string
	Kind       AuditKind
	Username   string
	ExamID     string
	ResultID   string
	Score      int
	Total      int
	OccurredAt time.Time
}
