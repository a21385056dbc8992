package domain

import "time"

// Result is the scored outcome of one submission.
type Result struct {
	ID                string    `json:"id"`
	CandidateID       string    `json:"candidate_id"`
	CandidateUsername string    `json:"candidate_username"`
	ExamID            string    `json:"exam_id"`
	ExamTitle         string    `json:"exam_title"`
	Subject           string    `json:"subject"`
	Score             int       `json:"score"`
	Total             int       `json:"total"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// Score counts the answers matching each question's correct choice. Answers
// for questions outside qs are ignored.
func Score(qs []Question, answers map[string]int) int {
	score := 0
	for i := range qs {
		chosen, ok := answers[qs[i].ID]
		if ok && qs[i].IsCorrect(chosen) {
			score++
		}
	}
	return score
}
