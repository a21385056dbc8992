package middleware

import (
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oles/exam-system/internal/api/metrics"
	"github.com/oles/exam-system/internal/core/domain"
)

// Requirement is what a rule demands of the caller.
type Requirement int

const (
	// Public admits anonymous callers.
	Public Requirement = iota
	// Authenticated admits any identity.
	Authenticated
	// AnyCapability admits identities holding one of the rule's capabilities.
	AnyCapability
)

// Rule matches a path prefix. "/api/admin" matches "/api/admin" and anything
// below it but not "/api/administrator".
type Rule struct {
	Prefix       string
	Require      Requirement
	Capabilities []domain.Capability
}

func (r Rule) matches(p string) bool {
	if r.Prefix == "/" {
		return true
	}
	return p == r.Prefix || strings.HasPrefix(p, r.Prefix+"/")
}

func (r Rule) admits(id domain.Identity) bool {
	switch r.Require {
	case Public, Authenticated:
		return true
	case AnyCapability:
		have := id.Capability()
		for _, c := range r.Capabilities {
			if c == have {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Policy is an ordered rule list. The first matching rule decides; a path no
// rule matches requires authentication.
type Policy []Rule

// DefaultPolicy is the access policy of the exam API.
func DefaultPolicy() Policy {
	return Policy{
		{Prefix: "/api/auth", Require: Public},
		{Prefix: "/health", Require: Public},
		{Prefix: "/metrics", Require: Public},
		{Prefix: "/swagger", Require: Public},
		{Prefix: "/api/admin", Require: AnyCapability, Capabilities: []domain.Capability{domain.CapabilityAdmin}},
		{Prefix: "/api/candidate", Require: AnyCapability, Capabilities: []domain.Capability{domain.CapabilityAdmin, domain.CapabilityCandidate}},
		{Prefix: "/", Require: Authenticated},
	}
}

// Decide returns nil when the caller may proceed, domain.ErrUnauthenticated
// when a protected path is requested anonymously and domain.ErrForbidden when
// the identity lacks the required capability.
func (p Policy) Decide(requestPath string, id domain.Identity, authenticated bool) error {
	clean := path.Clean("/" + requestPath)
	for _, rule := range p {
		if !rule.matches(clean) {
			continue
		}
		if rule.Require == Public {
			return nil
		}
		if !authenticated {
			return domain.ErrUnauthenticated
		}
		if !rule.admits(id) {
			return domain.ErrForbidden
		}
		return nil
	}
	if !authenticated {
		return domain.ErrUnauthenticated
	}
	return nil
}

// Authorize enforces p before the route handler runs. It expects Authenticate
// to have run earlier in the chain and the router to have matched already.
//
// Both the decoded request path and the matched route template are checked and
// the stricter answer wins. The router matches on the raw path, so an encoded
// "%2F.." can make the decoded path look public while an admin route is
// dispatched; the template cannot be disguised that way.
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := domain.IdentityFromContext(c.Request().Context())

			err := p.Decide(c.Request().URL.Path, id, ok)
			if err == nil && c.Path() != "" {
				err = p.Decide(c.Path(), id, ok)
			}

			switch err {
			case nil:
				return next(c)
			case domain.ErrUnauthenticated:
				metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				return err
			default:
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				return err
			}
		}
	}
}
