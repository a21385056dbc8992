package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/core/ports"
)

// ExamHandler serves exam management for administrators.
type ExamHandler struct {
	service ports.ExamService
}

func NewExamHandler(service ports.ExamService) *ExamHandler {
	return &ExamHandler{service: service}
}

// Create handles POST /api/admin/exams.
//
// @Summary      Create an exam
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      examRequest  true  "Exam"
// @Success      201   {object}  adminExamResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/admin/exams [post]
func (h *ExamHandler) Create(c echo.Context) error {
	var req examRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	e, err := h.service.Create(c.Request().Context(), toExamInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAdminExam(*e))
}

// List handles GET /api/admin/exams.
//
// @Summary      List exams
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  adminExamResponse
// @Router       /api/admin/exams [get]
func (h *ExamHandler) List(c echo.Context) error {
	exams, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]adminExamResponse, 0, len(exams))
	for _, e := range exams {
		out = append(out, toAdminExam(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/admin/exams/:id. Admins see the answer key.
//
// @Summary      Get an exam with its questions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exam id"
// @Success      200  {object}  adminExamDetail
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/exams/{id} [get]
func (h *ExamHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminExamDetail{
		Exam:      toAdminExam(d.Exam),
		Questions: nonNilQuestions(d.Questions),
	})
}

// AddQuestion handles POST /api/admin/exams/:id/addQuestion/:qid.
//
// @Summary      Attach a question to an exam
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exam id"
// @Param        qid  path      string  true  "Question id"
// @Success      200  {object}  adminExamResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/exams/{id}/addQuestion/{qid} [post]
func (h *ExamHandler) AddQuestion(c echo.Context) error {
	e, err := h.service.AddQuestion(c.Request().Context(), c.Param("id"), c.Param("qid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminExam(*e))
}

// Delete handles DELETE /api/admin/exams/:id.
//
// @Summary      Delete an exam
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Exam id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/exams/{id} [delete]
func (h *ExamHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
