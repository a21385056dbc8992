package ports

import (
	"context"
	"time"

	"github.com/oles/exam-system/internal/core/domain"
)

// QuestionInput carries the editable fields of a question.
type QuestionInput struct {
	Subject      string
	Text         string
	Choices      []string
	CorrectIndex int
}

type QuestionService interface {
	Create(ctx context.Context, input QuestionInput) (*domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, id string, input QuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}

// ExamInput carries the fields accepted when creating an exam.
type ExamInput struct {
	Title           string
	Subject         string
	DurationMinutes int
	StartTime       time.Time
	EndTime         time.Time
}

// ExamDetail is an exam together with its resolved questions.
type ExamDetail struct {
	Exam      domain.Exam
	Questions []domain.Question
}

type ExamService interface {
	Create(ctx context.Context, input ExamInput) (*domain.Exam, error)
	Get(ctx context.Context, id string) (*ExamDetail, error)
	List(ctx context.Context) ([]domain.Exam, error)
	AddQuestion(ctx context.Context, examID, questionID string) (*domain.Exam, error)
	Delete(ctx context.Context, id string) error
}

// SubmitInput is a candidate's answer sheet. Answers maps question id to the
// 1-based choice.
type SubmitInput struct {
	ExamID         string
	Answers        map[string]int
	IdempotencyKey string
}

// SubmitResult wraps the stored result. Replayed is true when the
// idempotency key matched an earlier submission.
type SubmitResult struct {
	Result   *domain.Result
	Replayed bool
}

type SubmissionService interface {
	Submit(ctx context.Context, who domain.Identity, input SubmitInput) (*SubmitResult, error)
	MyResults(ctx context.Context, who domain.Identity) ([]domain.Result, error)
	AllResults(ctx context.Context) ([]domain.Result, error)
	ResultsForUser(ctx context.Context, userID string) ([]domain.Result, error)
}
