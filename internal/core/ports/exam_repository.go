package ports

import (
	"context"

	"github.com/oles/exam-system/internal/core/domain"
)

// QuestionRepository persists the question bank.
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) (*domain.Question, error)
	FindByID(ctx context.Context, id string) (*domain.Question, error)
	// FindByIDs returns the questions that exist, in the order of ids.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, q *domain.Question) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ExamRepository persists exams.
type ExamRepository interface {
	Create(ctx context.Context, e *domain.Exam) (*domain.Exam, error)
	FindByID(ctx context.Context, id string) (*domain.Exam, error)
	List(ctx context.Context) ([]domain.Exam, error)
	// AddQuestion appends questionID unless already present and returns the
	// updated exam.
	AddQuestion(ctx context.Context, examID, questionID string) (*domain.Exam, error)
	SetQuestions(ctx context.Context, examID string, questionIDs []string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ResultRepository persists scored submissions.
type ResultRepository interface {
	Create(ctx context.Context, r *domain.Result) (*domain.Result, error)
	FindByID(ctx context.Context, id string) (*domain.Result, error)
	// ListByCandidate returns a candidate's results, newest first. An empty
	// candidateID lists every result.
	ListByCandidate(ctx context.Context, candidateID string) ([]domain.Result, error)
}
