package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

type ExamService struct {
	exams     ports.ExamRepository
	questions ports.QuestionRepository
	log       zerolog.Logger
}

func NewExamService(exams ports.ExamRepository, questions ports.QuestionRepository, log zerolog.Logger) *ExamService {
	return &ExamService{exams: exams, questions: questions, log: log}
}

func (s *ExamService) Create(ctx context.Context, in ports.ExamInput) (*domain.Exam, error) {
	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	if title == "" || subject == "" {
		return nil, fmt.Errorf("%w: title and subject are required", domain.ErrInvalidInput)
	}
	if in.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() && in.EndTime.Before(in.StartTime) {
		return nil, fmt.Errorf("%w: end_time before start_time", domain.ErrInvalidInput)
	}

	created, err := s.exams.Create(ctx, &domain.Exam{
		Title:           title,
		Subject:         subject,
		DurationMinutes: in.DurationMinutes,
		StartTime:       in.StartTime.UTC(),
		EndTime:         in.EndTime.UTC(),
		QuestionIDs:     []string{},
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("exam_id", created.ID).Str("title", created.Title).Msg("exam created")
	return created, nil
}

// Get returns the exam with its questions resolved in attachment order.
// Questions deleted after being attached are skipped.
func (s *ExamService) Get(ctx context.Context, id string) (*ports.ExamDetail, error) {
	exam, err := s.exams.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	qs, err := s.questions.FindByIDs(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load exam questions: %w", err)
	}
	return &ports.ExamDetail{Exam: *exam, Questions: qs}, nil
}

func (s *ExamService) List(ctx context.Context) ([]domain.Exam, error) {
	return s.exams.List(ctx)
}

func (s *ExamService) AddQuestion(ctx context.Context, examID, questionID string) (*domain.Exam, error) {
	if _, err := s.exams.FindByID(ctx, examID); err != nil {
		return nil, err
	}
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.exams.AddQuestion(ctx, examID, questionID)
}

func (s *ExamService) Delete(ctx context.Context, id string) error {
	return s.exams.Delete(ctx, id)
}
