package ports

import (
	"context"

	"github.com/oles/exam-system/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. An empty Role
// defaults to CANDIDATE.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// TokenClaims is what a verified token proves about its bearer.
type TokenClaims struct {
	Username string
	Role     domain.Role
}

// TokenService mints and verifies signed, time-bound tokens.
type TokenService interface {
	Issue(username string, role domain.Role) (string, error)
	Verify(token string) (TokenClaims, error)
}
