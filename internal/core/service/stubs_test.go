package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oles/exam-system/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubQuestionRepo struct {
	seq       int
	questions map[string]domain.Question
}

func newStubQuestionRepo() *stubQuestionRepo {
	return &stubQuestionRepo{questions: make(map[string]domain.Question)}
}

func (r *stubQuestionRepo) Create(_ context.Context, q *domain.Question) (*domain.Question, error) {
	r.seq++
	stored := *q
	stored.ID = fmt.Sprintf("q%d", r.seq)
	r.questions[stored.ID] = stored
	return &stored, nil
}

func (r *stubQuestionRepo) FindByID(_ context.Context, id string) (*domain.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *stubQuestionRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *stubQuestionRepo) List(context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(r.questions))
	for _, q := range r.questions {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubQuestionRepo) Update(_ context.Context, q *domain.Question) (*domain.Question, error) {
	if _, ok := r.questions[q.ID]; !ok {
		return nil, domain.ErrQuestionNotFound
	}
	r.questions[q.ID] = *q
	stored := *q
	return &stored, nil
}

func (r *stubQuestionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *stubQuestionRepo) Count(context.Context) (int64, error) {
	return int64(len(r.questions)), nil
}

type stubExamRepo struct {
	seq   int
	exams map[string]domain.Exam
}

func newStubExamRepo() *stubExamRepo {
	return &stubExamRepo{exams: make(map[string]domain.Exam)}
}

func (r *stubExamRepo) Create(_ context.Context, e *domain.Exam) (*domain.Exam, error) {
	r.seq++
	stored := *e
	stored.ID = fmt.Sprintf("e%d", r.seq)
	r.exams[stored.ID] = stored
	return &stored, nil
}

func (r *stubExamRepo) FindByID(_ context.Context, id string) (*domain.Exam, error) {
	e, ok := r.exams[id]
	if !ok {
		return nil, domain.ErrExamNotFound
	}
	return &e, nil
}

func (r *stubExamRepo) List(context.Context) ([]domain.Exam, error) {
	out := make([]domain.Exam, 0, len(r.exams))
	for _, e := range r.exams {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubExamRepo) AddQuestion(_ context.Context, examID, questionID string) (*domain.Exam, error) {
	e, ok := r.exams[examID]
	if !ok {
		return nil, domain.ErrExamNotFound
	}
	if !e.HasQuestion(questionID) {
		e.QuestionIDs = append(append([]string{}, e.QuestionIDs...), questionID)
		r.exams[examID] = e
	}
	return &e, nil
}

func (r *stubExamRepo) SetQuestions(_ context.Context, examID string, ids []string) error {
	e, ok := r.exams[examID]
	if !ok {
		return domain.ErrExamNotFound
	}
	e.QuestionIDs = append([]string{}, ids...)
	r.exams[examID] = e
	return nil
}

func (r *stubExamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.exams[id]; !ok {
		return domain.ErrExamNotFound
	}
	delete(r.exams, id)
	return nil
}

func (r *stubExamRepo) Count(context.Context) (int64, error) {
	return int64(len(r.exams)), nil
}

type stubResultRepo struct {
	seq     int
	results []domain.Result
	err     error
}

func (r *stubResultRepo) Create(_ context.Context, res *domain.Result) (*domain.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	stored := *res
	stored.ID = fmt.Sprintf("r%d", r.seq)
	r.results = append(r.results, stored)
	return &stored, nil
}

func (r *stubResultRepo) FindByID(_ context.Context, id string) (*domain.Result, error) {
	for _, res := range r.results {
		if res.ID == id {
			found := res
			return &found, nil
		}
	}
	return nil, domain.ErrResultNotFound
}

func (r *stubResultRepo) ListByCandidate(_ context.Context, candidateID string) ([]domain.Result, error) {
	out := []domain.Result{}
	for i := len(r.results) - 1; i >= 0; i-- {
		if candidateID == "" || r.results[i].CandidateID == candidateID {
			out = append(out, r.results[i])
		}
	}
	return out, nil
}

const pendingResult = "pending"

type stubGuard struct {
	keys       map[string]string
	reserveErr error
	released   int
}

func newStubGuard() *stubGuard {
	return &stubGuard{keys: make(map[string]string)}
}

func (g *stubGuard) Reserve(_ context.Context, username, examID, key string) (string, bool, error) {
	if g.reserveErr != nil {
		return "", false, g.reserveErr
	}
	k := username + "|" + examID + "|" + key
	id, ok := g.keys[k]
	if !ok {
		g.keys[k] = pendingResult
		return "", true, nil
	}
	if id == pendingResult {
		return "", false, nil
	}
	return id, false, nil
}

func (g *stubGuard) Complete(_ context.Context, username, examID, key, resultID string) error {
	g.keys[username+"|"+examID+"|"+key] = resultID
	return nil
}

func (g *stubGuard) Release(_ context.Context, username, examID, key string) error {
	g.released++
	delete(g.keys, username+"|"+examID+"|"+key)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) kinds() []domain.AuditKind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditKind, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Kind)
	}
	return out
}
