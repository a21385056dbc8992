package handler

import (
	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

// --- Request → Service input ---

func toQuestionInput(req questionRequest) ports.QuestionInput {
	return ports.QuestionInput{
		Subject:      req.Subject,
		Text:         req.Text,
		Choices:      req.Choices,
		CorrectIndex: req.CorrectIndex,
	}
}

func toExamInput(req examRequest) ports.ExamInput {
	return ports.ExamInput{
		Title:           req.Title,
		Subject:         req.Subject,
		DurationMinutes: req.DurationMinutes,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	}
}

// --- Domain → Response ---

func toExamSummary(e domain.Exam) examSummary {
	return examSummary{
		ID:              e.ID,
		Title:           e.Title,
		Subject:         e.Subject,
		DurationMinutes: e.DurationMinutes,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		QuestionCount:   len(e.QuestionIDs),
	}
}

func toExamSummaries(exams []domain.Exam) []examSummary {
	out := make([]examSummary, 0, len(exams))
	for _, e := range exams {
		out = append(out, toExamSummary(e))
	}
	return out
}

func toAdminExam(e domain.Exam) adminExamResponse {
	ids := e.QuestionIDs
	if ids == nil {
		ids = []string{}
	}
	return adminExamResponse{examSummary: toExamSummary(e), QuestionIDs: ids}
}

// toCandidateExam drops the answer key.
func toCandidateExam(d *ports.ExamDetail) candidateExamResponse {
	qs := make([]candidateQuestion, 0, len(d.Questions))
	for _, q := range d.Questions {
		qs = append(qs, candidateQuestion{ID: q.ID, Subject: q.Subject, Text: q.Text, Choices: q.Choices})
	}
	return candidateExamResponse{examSummary: toExamSummary(d.Exam), Questions: qs}
}

func nonNilResults(rs []domain.Result) []domain.Result {
	if rs == nil {
		return []domain.Result{}
	}
	return rs
}

func nonNilQuestions(qs []domain.Question) []domain.Question {
	if qs == nil {
		return []domain.Question{}
	}
	return qs
}
