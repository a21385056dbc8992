package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

// SubmissionService scores answer sheets and serves stored results.
type SubmissionService struct {
	users     ports.UserRepository
	exams     ports.ExamRepository
	questions ports.QuestionRepository
	results   ports.ResultRepository
	guard     ports.SubmissionGuard
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

func NewSubmissionService(
	users ports.UserRepository,
	exams ports.ExamRepository,
	questions ports.QuestionRepository,
	results ports.ResultRepository,
	guard ports.SubmissionGuard,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *SubmissionService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &SubmissionService{
		users:     users,
		exams:     exams,
		questions: questions,
		results:   results,
		guard:     guard,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// Submit scores the answers of who against the exam and stores the result.
// With an idempotency key, the key is reserved before scoring so concurrent
// repeats cannot both be stored: a repeat returns the stored result, or
// domain.ErrSubmissionInProgress while the first is still being scored.
func (s *SubmissionService) Submit(ctx context.Context, who domain.Identity, in ports.SubmitInput) (*ports.SubmitResult, error) {
	candidate, err := s.candidate(ctx, who)
	if err != nil {
		return nil, err
	}

	exam, err := s.exams.FindByID(ctx, in.ExamID)
	if err != nil {
		return nil, err
	}

	guarded, replay, err := s.reserve(ctx, candidate.Username, exam.ID, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		return &ports.SubmitResult{Result: replay, Replayed: true}, nil
	}

	result, err := s.score(ctx, candidate, exam, in.Answers)
	if err != nil {
		if guarded {
			if rerr := s.guard.Release(ctx, candidate.Username, exam.ID, in.IdempotencyKey); rerr != nil {
				s.log.Warn().Err(rerr).Str("exam_id", exam.ID).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if guarded {
		if err := s.guard.Complete(ctx, candidate.Username, exam.ID, in.IdempotencyKey, result.ID); err != nil {
			s.log.Warn().Err(err).Str("exam_id", exam.ID).Msg("failed to remember idempotency key")
		}
	}

	s.audit.Record(domain.AuditEvent{
		Kind:       domain.AuditExamSubmitted,
		Username:   candidate.Username,
		ExamID:     exam.ID,
		ResultID:   result.ID,
		Score:      result.Score,
		Total:      result.Total,
		OccurredAt: result.SubmittedAt,
	})
	s.log.Info().
		Str("username", candidate.Username).
		Str("exam_id", exam.ID).
		Int("score", result.Score).
		Int("total", result.Total).
		Msg("exam submitted")

	return &ports.SubmitResult{Result: result}, nil
}

func (s *SubmissionService) score(ctx context.Context, candidate *domain.User, exam *domain.Exam, answers map[string]int) (*domain.Result, error) {
	qs, err := s.questions.FindByIDs(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("submit: load questions: %w", err)
	}

	result, err := s.results.Create(ctx, &domain.Result{
		CandidateID:       candidate.ID,
		CandidateUsername: candidate.Username,
		ExamID:            exam.ID,
		ExamTitle:         exam.Title,
		Subject:           exam.Subject,
		Score:             domain.Score(qs, answers),
		Total:             len(qs),
		SubmittedAt:       s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("submit: store result: %w", err)
	}
	return result, nil
}

// reserve claims the idempotency key. guarded reports whether this call owns
// the reservation; replay is the earlier result when the key was already used.
// Guard failures are logged and the submission proceeds unguarded.
func (s *SubmissionService) reserve(ctx context.Context, username, examID, key string) (guarded bool, replay *domain.Result, err error) {
	if key == "" || s.guard == nil {
		return false, nil, nil
	}

	resultID, reserved, err := s.guard.Reserve(ctx, username, examID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID).Msg("idempotency reservation failed, scoring unguarded")
		return false, nil, nil
	}
	if reserved {
		return true, nil, nil
	}
	if resultID == "" {
		return false, nil, domain.ErrSubmissionInProgress
	}

	stored, err := s.results.FindByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			s.log.Warn().Str("result_id", resultID).Msg("idempotency key points at a missing result, scoring unguarded")
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("submit: load replayed result: %w", err)
	}
	s.log.Info().Str("username", username).Str("result_id", stored.ID).Msg("idempotent replay")
	return false, stored, nil
}

func (s *SubmissionService) MyResults(ctx context.Context, who domain.Identity) ([]domain.Result, error) {
	candidate, err := s.candidate(ctx, who)
	if err != nil {
		return nil, err
	}
	return s.results.ListByCandidate(ctx, candidate.ID)
}

func (s *SubmissionService) AllResults(ctx context.Context) ([]domain.Result, error) {
	return s.results.ListByCandidate(ctx, "")
}

func (s *SubmissionService) ResultsForUser(ctx context.Context, userID string) ([]domain.Result, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.results.ListByCandidate(ctx, user.ID)
}

// candidate resolves the request identity to its stored principal. An
// identity whose principal has disappeared is treated as unauthenticated.
func (s *SubmissionService) candidate(ctx context.Context, who domain.Identity) (*domain.User, error) {
	if who.Username == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByUsername(ctx, who.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}
