package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a principal can hold.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleCandidate Role = "CANDIDATE"
)

// Capability is a permission granted to a request identity. Each role grants
// exactly one capability.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityAdmin
	CapabilityCandidate
)

// ParseRole accepts the role names case-insensitively. An empty string is
// reported as an error; callers that want a default apply it themselves.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCandidate:
		return RoleCandidate, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCandidate:
		return true
	default:
		return false
	}
}

// Capability returns the single capability granted by r.
func (r Role) Capability() Capability {
	switch r {
	case RoleAdmin:
		return CapabilityAdmin
	case RoleCandidate:
		return CapabilityCandidate
	default:
		return CapabilityNone
	}
}

func (r Role) String() string { return string(r) }

func (c Capability) String() string {
	switch c {
	case CapabilityAdmin:
		return "ROLE_ADMIN"
	case CapabilityCandidate:
		return "ROLE_CANDIDATE"
	default:
		return "NONE"
	}
}
