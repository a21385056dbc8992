package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

// Seeder fills an empty database with sample users, questions and exams, then
// attaches questions to exams by subject.
type Seeder struct {
	users     ports.UserRepository
	questions ports.QuestionRepository
	exams     ports.ExamRepository
	password  string
	log       zerolog.Logger
}

func NewSeeder(users ports.UserRepository, questions ports.QuestionRepository, exams ports.ExamRepository, password string, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, questions: questions, exams: exams, password: password, log: log}
}

// Run is safe to call on every start: each collection is only seeded when empty.
func (s *Seeder) Run(ctx context.Context) error {
	if n, err := s.users.Count(ctx); err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	} else if n == 0 {
		if err := s.seedUsers(ctx); err != nil {
			return err
		}
	}

	if n, err := s.questions.Count(ctx); err != nil {
		return fmt.Errorf("seed: count questions: %w", err)
	} else if n == 0 {
		if err := s.seedQuestions(ctx); err != nil {
			return err
		}
	}

	if n, err := s.exams.Count(ctx); err != nil {
		return fmt.Errorf("seed: count exams: %w", err)
	} else if n == 0 {
		if err := s.seedExams(ctx); err != nil {
			return err
		}
	}

	return s.attachBySubject(ctx)
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	now := time.Now().UTC()
	users := []domain.User{
		{Username: "admin", Name: "Admin", Email: "admin@oles.com", Role: domain.RoleAdmin},
		{Username: "student", Name: "Student", Email: "student@oles.com", Role: domain.RoleCandidate},
	}
	for i := range users {
		u := users[i]
		u.PasswordHash = string(hash)
		u.CreatedAt, u.UpdatedAt = now, now
		if _, err := s.users.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.Username, err)
		}
	}
	s.log.Info().Int("count", len(users)).Msg("seeded users")
	return nil
}

func (s *Seeder) seedQuestions(ctx context.Context) error {
	for i := range sampleQuestions {
		q := sampleQuestions[i]
		if _, err := s.questions.Create(ctx, &q); err != nil {
			return fmt.Errorf("seed: create question: %w", err)
		}
	}
	s.log.Info().Int("count", len(sampleQuestions)).Msg("seeded questions")
	return nil
}

func (s *Seeder) seedExams(ctx context.Context) error {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	exams := []domain.Exam{
		{Title: "Math Basics", Subject: "Mathematics", DurationMinutes: 30},
		{Title: "Science Fundamentals", Subject: "Science", DurationMinutes: 45},
		{Title: "English Grammar", Subject: "English", DurationMinutes: 25},
	}
	for i := range exams {
		e := exams[i]
		e.StartTime, e.EndTime = start, end
		e.QuestionIDs = []string{}
		if _, err := s.exams.Create(ctx, &e); err != nil {
			return fmt.Errorf("seed: create exam %s: %w", e.Title, err)
		}
	}
	s.log.Info().Int("count", len(exams)).Msg("seeded exams")
	return nil
}

// attachBySubject replaces each exam's question list with every question of
// the same subject. Exams with no matching question are left untouched.
func (s *Seeder) attachBySubject(ctx context.Context) error {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list exams: %w", err)
	}
	questions, err := s.questions.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list questions: %w", err)
	}

	for _, e := range exams {
		var ids []string
		for _, q := range questions {
			if q.Subject == e.Subject {
				ids = append(ids, q.ID)
			}
		}
		if len(ids) == 0 {
			continue
		}
		if err := s.exams.SetQuestions(ctx, e.ID, ids); err != nil {
			return fmt.Errorf("seed: attach questions to %s: %w", e.Title, err)
		}
		s.log.Debug().Str("exam", e.Title).Int("questions", len(ids)).Msg("attached questions")
	}
	return nil
}

var sampleQuestions = []domain.Question{
	{Subject: "Mathematics", Text: "What is 2 + 2?", Choices: []string{"3", "4", "5", "6"}, CorrectIndex: 2},
	{Subject: "Mathematics", Text: "What is the square root of 16?", Choices: []string{"2", "4", "6", "8"}, CorrectIndex: 2},
	{Subject: "Science", Text: "What is the chemical symbol for water?", Choices: []string{"H2O", "CO2", "O2", "H2"}, CorrectIndex: 1},
	{Subject: "Science", Text: "What planet is known as the Red Planet?", Choices: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectIndex: 2},
	{Subject: "English", Text: "Which of the following is a noun?", Choices: []string{"run", "quickly", "book", "beautifully"}, CorrectIndex: 3},
	{Subject: "English", Text: "What is the plural of 'child'?", Choices: []string{"childs", "children", "childes", "child"}, CorrectIndex: 2},
}
