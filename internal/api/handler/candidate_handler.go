package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/api/metrics"
	"github.com/oles/exam-system/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// CandidateHandler serves the test-taking flow. The candidate is always the
// caller's token identity.
type CandidateHandler struct {
	exams       ports.ExamService
	submissions ports.SubmissionService
}

func NewCandidateHandler(exams ports.ExamService, submissions ports.SubmissionService) *CandidateHandler {
	return &CandidateHandler{exams: exams, submissions: submissions}
}

// ListExams handles GET /api/candidate/exams.
//
// @Summary      List available exams
// @Tags         candidate
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   examSummary
// @Failure      401  {object}  errorResponse
// @Router       /api/candidate/exams [get]
func (h *CandidateHandler) ListExams(c echo.Context) error {
	exams, err := h.exams.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExamSummaries(exams))
}

// GetExam handles GET /api/candidate/exams/:id. The answer key is withheld.
//
// @Summary      Get an exam to take
// @Tags         candidate
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exam id"
// @Success      200  {object}  candidateExamResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/candidate/exams/{id} [get]
func (h *CandidateHandler) GetExam(c echo.Context) error {
	d, err := h.exams.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCandidateExam(d))
}

// Submit handles POST /api/candidate/exams/:id/submit. The body maps question
// ids to the chosen 1-based option.
//
// @Summary      Submit answers
// @Tags         candidate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string          true   "Exam id"
// @Param        Idempotency-Key  header    string          false  "Replay protection key"
// @Param        body             body      map[string]int  true   "Answers"
// @Success      201              {object}  submitResponse
// @Success      200              {object}  submitResponse  "replayed submission"
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /api/candidate/exams/{id}/submit [post]
func (h *CandidateHandler) Submit(c echo.Context) error {
	who, err := callerIdentity(c)
	if err != nil {
		return err
	}

	answers := map[string]int{}
	if err := json.NewDecoder(c.Request().Body).Decode(&answers); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "answers must map question ids to choice numbers")
	}

	out, err := h.submissions.Submit(c.Request().Context(), who, ports.SubmitInput{
		ExamID:         c.Param("id"),
		Answers:        answers,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if out.Replayed {
		metrics.SubmissionsTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, submitResponse{Result: *out.Result, Replayed: true})
	}

	metrics.SubmissionsTotal.WithLabelValues("scored").Inc()
	if out.Result.Total > 0 {
		metrics.SubmissionScoreRatio.Observe(float64(out.Result.Score) / float64(out.Result.Total))
	}
	return c.JSON(http.StatusCreated, submitResponse{Result: *out.Result})
}

// Results handles GET /api/candidate/results.
//
// @Summary      My results
// @Tags         candidate
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Result
// @Router       /api/candidate/results [get]
func (h *CandidateHandler) Results(c echo.Context) error {
	who, err := callerIdentity(c)
	if err != nil {
		return err
	}
	rs, err := h.submissions.MyResults(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilResults(rs))
}
