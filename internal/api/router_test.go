package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/api/handler"
	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
	"github.com/oles/exam-system/internal/core/service"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	cp := *u
	cp.ID = "id-" + u.Username
	m.users[u.Username] = &cp
	return &cp, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type emptyQuestions struct{}

func (emptyQuestions) Create(context.Context, ports.QuestionInput) (*domain.Question, error) {
	return &domain.Question{ID: "q1"}, nil
}
func (emptyQuestions) Get(context.Context, string) (*domain.Question, error) {
	return nil, domain.ErrQuestionNotFound
}
func (emptyQuestions) List(context.Context) ([]domain.Question, error) { return nil, nil }
func (emptyQuestions) Update(context.Context, string, ports.QuestionInput) (*domain.Question, error) {
	return nil, domain.ErrQuestionNotFound
}
func (emptyQuestions) Delete(context.Context, string) error { return domain.ErrQuestionNotFound }

type oneExam struct{}

func (oneExam) Create(context.Context, ports.ExamInput) (*domain.Exam, error) {
	return &domain.Exam{ID: "e1"}, nil
}
func (oneExam) Get(context.Context, string) (*ports.ExamDetail, error) {
	return &ports.ExamDetail{Exam: domain.Exam{ID: "e1"}}, nil
}
func (oneExam) List(context.Context) ([]domain.Exam, error) {
	return []domain.Exam{{ID: "e1", Title: "Math Basics", Subject: "Mathematics"}}, nil
}
func (oneExam) AddQuestion(context.Context, string, string) (*domain.Exam, error) {
	return nil, domain.ErrExamNotFound
}
func (oneExam) Delete(context.Context, string) error { return nil }

type noResults struct{}

func (noResults) Submit(_ context.Context, who domain.Identity, in ports.SubmitInput) (*ports.SubmitResult, error) {
	return &ports.SubmitResult{Result: &domain.Result{ID: "r1", ExamID: in.ExamID, CandidateUsername: who.Username}}, nil
}
func (noResults) MyResults(context.Context, domain.Identity) ([]domain.Result, error) {
	return nil, nil
}
func (noResults) AllResults(context.Context) ([]domain.Result, error) { return nil, nil }
func (noResults) ResultsForUser(context.Context, string) ([]domain.Result, error) {
	return nil, domain.ErrUserNotFound
}

func newTestServer(t *testing.T) (*httptest.Server, *memUsers) {
	t.Helper()
	users := &memUsers{users: map[string]*domain.User{}}
	tokens := service.NewTokenService("test-secret", time.Hour)
	auth := service.NewAuthService(users, tokens, nil, zerolog.Nop())

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:        auth,
		Tokens:      tokens,
		Users:       users,
		Questions:   emptyQuestions{},
		Exams:       oneExam{},
		Submissions: noResults{},
		Checks:      map[string]handler.Check{"mongodb": func(context.Context) error { return nil }},
		Logger:      zerolog.Nop(),
		Registerer:  reg,
		Gatherer:    reg,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, users
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(raw)
}

func TestRouter_CandidateJourney(t *testing.T) {
	srv, users := newTestServer(t)

	code, body := do(t, srv, http.MethodPost, "/api/auth/register", "",
		`{"username":"alice","password":"Secret1","role":"CANDIDATE","name":"Alice","email":"a@x.io"}`)
	if code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %s", code, body)
	}
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Fatalf("register leaked credentials: %s", body)
	}
	if users.users["alice"].Role != domain.RoleCandidate {
		t.Fatalf("expected CANDIDATE role to be stored")
	}

	code, body = do(t, srv, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"Secret1"}`)
	if code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", code, body)
	}
	var login struct {
		Token    string `json:"token"`
		Role     string `json:"role"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(body), &login); err != nil || login.Token == "" || login.Role != "CANDIDATE" || login.Username != "alice" {
		t.Fatalf("login: unexpected payload %s (%v)", body, err)
	}

	if code, body = do(t, srv, http.MethodGet, "/api/candidate/exams", login.Token, ""); code != http.StatusOK {
		t.Fatalf("candidate exams: expected 200, got %d %s", code, body)
	}
	if code, _ = do(t, srv, http.MethodGet, "/api/admin/questions", login.Token, ""); code != http.StatusForbidden {
		t.Fatalf("admin questions as candidate: expected 403, got %d", code)
	}
	if code, body = do(t, srv, http.MethodPost, "/api/candidate/exams/e1/submit", login.Token, `{"q1":2}`); code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d %s", code, body)
	}
	if !strings.Contains(body, `"candidate_username":"alice"`) {
		t.Fatalf("submit: candidate must be the caller, got %s", body)
	}
}

func TestRouter_AccessRules(t *testing.T) {
	srv, users := newTestServer(t)
	tokens := service.NewTokenService("test-secret", time.Hour)
	users.users["root"] = &domain.User{ID: "id-root", Username: "root", Role: domain.RoleAdmin}
	adminToken, _ := tokens.Issue("root", domain.RoleAdmin)
	ghostToken, _ := tokens.Issue("ghost", domain.RoleAdmin)
	users.users["bob"] = &domain.User{ID: "id-bob", Username: "bob", Role: domain.RoleAdmin}
	bobCandidateToken, _ := tokens.Issue("bob", domain.RoleCandidate)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous admin", http.MethodGet, "/api/admin/questions", "", http.StatusUnauthorized},
		{"anonymous candidate", http.MethodGet, "/api/candidate/exams", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/candidate/exams", "garbage", http.StatusUnauthorized},
		{"deleted principal", http.MethodGet, "/api/admin/questions", ghostToken, http.StatusUnauthorized},
		{"candidate token of stored admin", http.MethodGet, "/api/admin/questions", bobCandidateToken, http.StatusForbidden},
		{"encoded traversal anonymous", http.MethodPost, "/api/admin/exams/e1%2F..%2F..%2F..%2F..%2Fapi%2Fauth/addQuestion/q1", "", http.StatusUnauthorized},
		{"encoded traversal candidate", http.MethodPost, "/api/admin/exams/e1%2F..%2F..%2F..%2F..%2Fapi%2Fauth/addQuestion/q1", bobCandidateToken, http.StatusForbidden},
		{"admin on admin", http.MethodGet, "/api/admin/questions", adminToken, http.StatusOK},
		{"admin on candidate", http.MethodGet, "/api/candidate/exams", adminToken, http.StatusOK},
		{"admin unknown user results", http.MethodGet, "/api/admin/results/user/nobody", adminToken, http.StatusNotFound},
		{"unknown login", http.MethodPost, "/api/auth/login", "", http.StatusUnauthorized},
		{"health public", http.MethodGet, "/health", "", http.StatusOK},
		{"ready public", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"metrics public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"catch-all anonymous", http.MethodGet, "/api/other", "", http.StatusUnauthorized},
		{"catch-all authenticated", http.MethodGet, "/api/other", adminToken, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := ""
			if tc.method == http.MethodPost {
				body = `{"username":"nobody","password":"whatever"}`
			}
			if code, resp := do(t, srv, tc.method, tc.path, tc.token, body); code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d %s", tc.method, tc.path, tc.want, code, resp)
			}
		})
	}
}

func TestRouter_StoreOutageIs500(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)
	tok, _ := tokens.Issue("alice", domain.RoleCandidate)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:        service.NewAuthService(failingUsers{}, tokens, nil, zerolog.Nop()),
		Tokens:      tokens,
		Users:       failingUsers{},
		Questions:   emptyQuestions{},
		Exams:       oneExam{},
		Submissions: noResults{},
		Logger:      zerolog.Nop(),
		Registerer:  reg,
		Gatherer:    reg,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/candidate/exams", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d %s", rec.Code, rec.Body.String())
	}
}

type failingUsers struct{}

func (failingUsers) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errStore
}
func (failingUsers) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, errStore
}
func (failingUsers) FindByID(context.Context, string) (*domain.User, error) { return nil, errStore }
func (failingUsers) Count(context.Context) (int64, error)                   { return 0, errStore }

var errStore = errors.New("server selection timeout")
