package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

type stubQuestionService struct {
	created *ports.QuestionInput
	err     error
}

func (s *stubQuestionService) Create(_ context.Context, in ports.QuestionInput) (*domain.Question, error) {
	s.created = &in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Question{ID: "q1", Subject: in.Subject, Text: in.Text, Choices: in.Choices, CorrectIndex: in.CorrectIndex}, nil
}
func (s *stubQuestionService) Get(context.Context, string) (*domain.Question, error) {
	return nil, domain.ErrQuestionNotFound
}
func (s *stubQuestionService) List(context.Context) ([]domain.Question, error) { return nil, s.err }
func (s *stubQuestionService) Update(_ context.Context, id string, in ports.QuestionInput) (*domain.Question, error) {
	return &domain.Question{ID: id, Subject: in.Subject}, s.err
}
func (s *stubQuestionService) Delete(context.Context, string) error { return s.err }

var root = &domain.Identity{Username: "root", Role: domain.RoleAdmin}

func TestQuestionHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubQuestionService{}
	h := NewQuestionHandler(svc)

	body := `{"subject":"Mathematics","text":"2+2?","choices":["1","2","3","4"],"correct_index":4}`
	c, rec := newContext(e, http.MethodPost, "/api/admin/questions", strings.NewReader(body), root)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created == nil || svc.created.CorrectIndex != 4 || len(svc.created.Choices) != 4 {
		t.Fatalf("unexpected service input: %+v", svc.created)
	}
	if !strings.Contains(rec.Body.String(), `"correct_index":4`) {
		t.Fatalf("admins see the answer key: %s", rec.Body.String())
	}
}

func TestQuestionHandler_Create_Validation(t *testing.T) {
	cases := map[string]string{
		"three choices": `{"subject":"s","text":"t","choices":["a","b","c"],"correct_index":1}`,
		"empty choice":  `{"subject":"s","text":"t","choices":["a","","c","d"],"correct_index":1}`,
		"index zero":    `{"subject":"s","text":"t","choices":["a","b","c","d"],"correct_index":0}`,
		"index five":    `{"subject":"s","text":"t","choices":["a","b","c","d"],"correct_index":5}`,
		"no subject":    `{"text":"t","choices":["a","b","c","d"],"correct_index":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			svc := &stubQuestionService{}
			h := NewQuestionHandler(svc)

			c, _ := newContext(e, http.MethodPost, "/api/admin/questions", strings.NewReader(body), root)
			requireHTTPError(t, h.Create(c), http.StatusBadRequest)
			if svc.created != nil {
				t.Fatalf("service must not be called")
			}
		})
	}
}

func TestQuestionHandler_GetNotFound(t *testing.T) {
	e := newEcho()
	h := NewQuestionHandler(&stubQuestionService{})

	c, _ := newContext(e, http.MethodGet, "/api/admin/questions/x", nil, root)
	c.SetParamNames("id")
	c.SetParamValues("x")
	if err := h.Get(c); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestQuestionHandler_Delete(t *testing.T) {
	e := newEcho()
	h := NewQuestionHandler(&stubQuestionService{})

	c, rec := newContext(e, http.MethodDelete, "/api/admin/questions/q1", nil, root)
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestExamHandler_CreateAndAddQuestion(t *testing.T) {
	e := newEcho()
	h := NewExamHandler(&stubExamService{})

	c, rec := newContext(e, http.MethodPost, "/api/admin/exams",
		strings.NewReader(`{"title":"Math Final","subject":"Mathematics","duration_minutes":60}`), root)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, rec = newContext(e, http.MethodPost, "/api/admin/exams/e1/addQuestion/q9", nil, root)
	c.SetParamNames("id", "qid")
	c.SetParamValues("e1", "q9")
	if err := h.AddQuestion(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp adminExamResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "e1" || len(resp.QuestionIDs) != 1 || resp.QuestionIDs[0] != "q9" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestExamHandler_AddQuestion_NotFound(t *testing.T) {
	e := newEcho()
	h := NewExamHandler(&stubExamService{err: domain.ErrQuestionNotFound})

	c, _ := newContext(e, http.MethodPost, "/api/admin/exams/e1/addQuestion/q9", nil, root)
	if err := h.AddQuestion(c); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestResultHandler_ForUser(t *testing.T) {
	e := newEcho()
	h := NewResultHandler(&stubSubmissionService{err: domain.ErrUserNotFound})

	c, _ := newContext(e, http.MethodGet, "/api/admin/results/user/nobody", nil, root)
	c.SetParamNames("userId")
	c.SetParamValues("nobody")
	if err := h.ForUser(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	h = NewResultHandler(&stubSubmissionService{results: []domain.Result{{ID: "r1"}}})
	c, rec := newContext(e, http.MethodGet, "/api/admin/results", nil, root)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"id":"r1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
