package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oles/exam-system/internal/api/metrics"
	"github.com/oles/exam-system/internal/core/domain"
	"github.com/oles/exam-system/internal/core/ports"
)

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token into a request identity. It never
// rejects a request on its own: a missing, malformed or unverifiable token and
// an unknown principal all leave the request anonymous. Only a credential store
// failure aborts the request.
func Authenticate(tokens ports.TokenService, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := domain.IdentityFromContext(req.Context()); ok {
				return next(c)
			}

			id, err := resolveIdentity(req.Context(), tokens, users, req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues("error").Inc()
				return err
			}
			if id == nil {
				metrics.GateDecisionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			metrics.GateDecisionsTotal.WithLabelValues("authenticated").Inc()
			log.Debug().Str("username", id.Username).Str("role", id.Role.String()).Msg("request authenticated")
			c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), *id)))
			return next(c)
		}
	}
}

// resolveIdentity returns (nil, nil) for every expected reason to stay
// anonymous. The role is the verified token's claim; the credential store only
// confirms the principal still exists.
func resolveIdentity(ctx context.Context, tokens ports.TokenService, users ports.UserRepository, header string) (*domain.Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, nil
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return nil, nil
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		return nil, nil
	}

	if _, err := users.FindByUsername(ctx, claims.Username); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve identity %q: %w", claims.Username, err)
	}

	return &domain.Identity{Username: claims.Username, Role: claims.Role}, nil
}
