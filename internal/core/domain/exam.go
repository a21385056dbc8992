package domain

import "time"

// Exam groups questions under a title and subject. QuestionIDs keeps the order
// in which questions were attached.
type Exam struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	DurationMinutes int       `json:"duration_minutes"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	QuestionIDs     []string  `json:"question_ids"`
}

// HasQuestion reports whether questionID is already attached.
func (e *Exam) HasQuestion(questionID string) bool {
	for _, id := range e.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}
