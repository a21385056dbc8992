package handler

import (
	"time"

	"github.com/oles/exam-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Role     string `json:"role"     validate:"omitempty,oneof=ADMIN CANDIDATE admin candidate"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// --- Questions ---

type questionRequest struct {
	Subject      string   `json:"subject"       validate:"required"`
	Text         string   `json:"text"          validate:"required"`
	Choices      []string `json:"choices"       validate:"required,len=4,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"required,min=1,max=4"`
}

// candidateQuestion is a question as shown to a test taker.
type candidateQuestion struct {
	ID      string   `json:"id"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// --- Exams ---

type examRequest struct {
	Title           string    `json:"title"            validate:"required"`
	Subject         string    `json:"subject"          validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"min=0"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

type examSummary struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	QuestionCount   int       `json:"question_count"`
}

type adminExamResponse struct {
	examSummary
	QuestionIDs []string `json:"question_ids"`
}

type candidateExamResponse struct {
	examSummary
	Questions []candidateQuestion `json:"questions"`
}

type adminExamDetail struct {
	Exam      adminExamResponse `json:"exam"`
	Questions []domain.Question `json:"questions"`
}

// --- Results ---

type submitResponse struct {
	domain.Result
	Replayed bool `json:"replayed"`
}
