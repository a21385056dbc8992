package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/core/ports"
)

// QuestionHandler serves the admin question bank.
type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// Create handles POST /api/admin/questions.
//
// @Summary      Create a question
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      questionRequest  true  "Question"
// @Success      201   {object}  domain.Question
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/questions [post]
func (h *QuestionHandler) Create(c echo.Context) error {
	var req questionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Create(c.Request().Context(), toQuestionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, q)
}

// List handles GET /api/admin/questions.
//
// @Summary      List questions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Question
// @Router       /api/admin/questions [get]
func (h *QuestionHandler) List(c echo.Context) error {
	qs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilQuestions(qs))
}

// Get handles GET /api/admin/questions/:id.
//
// @Summary      Get a question
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Question id"
// @Success      200  {object}  domain.Question
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/questions/{id} [get]
func (h *QuestionHandler) Get(c echo.Context) error {
	q, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Update handles PUT /api/admin/questions/:id.
//
// @Summary      Replace a question
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Question id"
// @Param        body  body      questionRequest  true  "Question"
// @Success      200   {object}  domain.Question
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/questions/{id} [put]
func (h *QuestionHandler) Update(c echo.Context) error {
	var req questionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Update(c.Request().Context(), c.Param("id"), toQuestionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Delete handles DELETE /api/admin/questions/:id.
//
// @Summary      Delete a question
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Question id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/questions/{id} [delete]
func (h *QuestionHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
