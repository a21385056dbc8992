package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

func validQuestionInput(subject string) ports.QuestionInput {
	return ports.QuestionInput{
		Subject:      subject,
		Text:         "What is 2 + 2?",
		Choices:      []string{"3", "4", "5", "6"},
		CorrectIndex: 2,
	}
}

func TestQuestionService_CreateAndUpdate(t *testing.T) {
	repo := newStubQuestionRepo()
	svc := NewQuestionService(repo, zerolog.Nop())
	ctx := context.Background()

	q, err := svc.Create(ctx, validQuestionInput(" Mathematics "))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if q.Subject != "Mathematics" {
		t.Fatalf("expected trimmed subject, got %q", q.Subject)
	}

	in := validQuestionInput("Mathematics")
	in.CorrectIndex = 4
	updated, err := svc.Update(ctx, q.ID, in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != q.ID || updated.CorrectIndex != 4 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", in); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestQuestionService_Validation(t *testing.T) {
	svc := NewQuestionService(newStubQuestionRepo(), zerolog.Nop())
	ctx := context.Background()

	cases := map[string]func(*ports.QuestionInput){
		"no subject":      func(in *ports.QuestionInput) { in.Subject = "" },
		"no text":         func(in *ports.QuestionInput) { in.Text = "  " },
		"three choices":   func(in *ports.QuestionInput) { in.Choices = in.Choices[:3] },
		"blank choice":    func(in *ports.QuestionInput) { in.Choices = []string{"a", "", "c", "d"} },
		"index too low":   func(in *ports.QuestionInput) { in.CorrectIndex = 0 },
		"index too large": func(in *ports.QuestionInput) { in.CorrectIndex = 5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validQuestionInput("Science")
			mutate(&in)
			if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestExamService_CreateValidation(t *testing.T) {
	svc := NewExamService(newStubExamRepo(), newStubQuestionRepo(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.ExamInput{Subject: "Science"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing title, got %v", err)
	}

	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(ctx, ports.ExamInput{
		Title: "Physics", Subject: "Science", StartTime: start, EndTime: start.Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted window, got %v", err)
	}
}

func TestExamService_AddQuestionAndGet(t *testing.T) {
	exams := newStubExamRepo()
	questions := newStubQuestionRepo()
	svc := NewExamService(exams, questions, zerolog.Nop())
	ctx := context.Background()

	exam, err := svc.Create(ctx, ports.ExamInput{Title: "Math Basics", Subject: "Mathematics", DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}
	q1, _ := questions.Create(ctx, &domain.Question{ID: "", Subject: "Mathematics", Text: "1+1", Choices: []string{"1", "2", "3", "4"}, CorrectIndex: 2})
	q2, _ := questions.Create(ctx, &domain.Question{Subject: "Mathematics", Text: "2+2", Choices: []string{"1", "2", "3", "4"}, CorrectIndex: 4})

	for _, id := range []string{q2.ID, q1.ID, q2.ID} {
		if _, err := svc.AddQuestion(ctx, exam.ID, id); err != nil {
			t.Fatalf("add question %s: %v", id, err)
		}
	}

	detail, err := svc.Get(ctx, exam.ID)
	if err != nil {
		t.Fatalf("get exam: %v", err)
	}
	if len(detail.Questions) != 2 || detail.Questions[0].ID != q2.ID || detail.Questions[1].ID != q1.ID {
		t.Fatalf("unexpected questions: %+v", detail.Questions)
	}

	if _, err := svc.AddQuestion(ctx, exam.ID, "nope"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := svc.AddQuestion(ctx, "nope", q1.ID); !errors.Is(err, domain.ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
}
