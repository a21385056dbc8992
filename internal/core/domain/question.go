package domain

// ChoiceCount is the fixed number of choices on every question.
const ChoiceCount = 4

// Question is a multiple-choice item. CorrectIndex is 1-based.
type Question struct {
	ID           string   `json:"id"`
	Subject      string   `json:"subject"`
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
}

// Validate checks the structural rules shared by create and update.
func (q *Question) Validate() error {
	if q.Subject == "" || q.Text == "" {
		return ErrInvalidInput
	}
	if len(q.Choices) != ChoiceCount {
		return ErrInvalidInput
	}
	for _, c := range q.Choices {
		if c == "" {
			return ErrInvalidInput
		}
	}
	if q.CorrectIndex < 1 || q.CorrectIndex > ChoiceCount {
		return ErrInvalidInput
	}
	return nil
}

// IsCorrect reports whether choice matches the correct answer.
func (q *Question) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex
}
