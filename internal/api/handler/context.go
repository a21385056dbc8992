package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/core/domain"
)

// callerIdentity returns the identity attached by the authentication gate.
// Routes behind the policy always carry one; its absence means the gate did
// not run and is reported as unauthenticated.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// bindAndValidate decodes the body into dst and runs the registered validator.
// Rule failures keep the *ValidationError as the internal error so the error
// handler can list the offending fields.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
