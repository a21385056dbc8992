package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

type QuestionService struct {
	repo ports.QuestionRepository
	log  zerolog.Logger
}

func NewQuestionService(repo ports.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{repo: repo, log: log}
}

func (s *QuestionService) Create(ctx context.Context, in ports.QuestionInput) (*domain.Question, error) {
	q := questionFromInput(in)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("question_id", created.ID).Str("subject", created.Subject).Msg("question created")
	return created, nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*domain.Question, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *QuestionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.repo.List(ctx)
}

// Update replaces every editable field of an existing question.
func (s *QuestionService) Update(ctx context.Context, id string, in ports.QuestionInput) (*domain.Question, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	q := questionFromInput(in)
	q.ID = id
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, q)
}

func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("question_id", id).Msg("question deleted")
	return nil
}

func questionFromInput(in ports.QuestionInput) *domain.Question {
	choices := make([]string, len(in.Choices))
	for i, c := range in.Choices {
		choices[i] = strings.TrimSpace(c)
	}
	return &domain.Question{
		Subject:      strings.TrimSpace(in.Subject),
		Text:         strings.TrimSpace(in.Text),
		Choices:      choices,
		CorrectIndex: in.CorrectIndex,
	}
}
