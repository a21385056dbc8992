package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/core/ports"
)

// ResultHandler exposes every stored result to administrators.
type ResultHandler struct {
	service ports.SubmissionService
}

func NewResultHandler(service ports.SubmissionService) *ResultHandler {
	return &ResultHandler{service: service}
}

// List handles GET /api/admin/results.
//
// @Summary      All results
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Result
// @Router       /api/admin/results [get]
func (h *ResultHandler) List(c echo.Context) error {
	rs, err := h.service.AllResults(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilResults(rs))
}

// ForUser handles GET /api/admin/results/user/:userId.
//
// @Summary      Results of one user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {array}   domain.Result
// @Failure      404     {object}  errorResponse
// @Router       /api/admin/results/user/{userId} [get]
func (h *ResultHandler) ForUser(c echo.Context) error {
	rs, err := h.service.ResultsForUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilResults(rs))
}
