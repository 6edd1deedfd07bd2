package auth

import (
	"strings"

	"github.com/spec-kit/auth-service/internal/domain"
)

// Decision is the outcome of a policy check for one request.
type Decision int

const (
	// DecisionPermit forwards the request, with or without an identity.
	DecisionPermit Decision = iota
	// DecisionDeny rejects an authenticated caller whose role is not allowed.
	DecisionDeny
	// DecisionRequireAuth rejects a request that carried no usable identity.
	DecisionRequireAuth
)

func (d Decision) String() string {
	switch d {
	case DecisionPermit:
		return "permit"
	case DecisionDeny:
		return "deny"
	case DecisionRequireAuth:
		return "require_auth"
	default:
		return "unknown"
	}
}

// RoutePolicy grants access to paths matching Pattern. Public routes skip
// authentication entirely; an empty role set admits any authenticated caller.
type RoutePolicy struct {
	Pattern string
	Public  bool
	Roles   []domain.Role
}

// PolicyEngine walks an ordered policy table and decides access per request.
// The table is authoritative as supplied: first match wins, so callers must
// declare specific patterns before broader ones. Immutable after construction.
type PolicyEngine struct {
	policies []RoutePolicy
}

// NewPolicyEngine builds an engine over the supplied table.
func NewPolicyEngine(policies []RoutePolicy) *PolicyEngine {
	table := make([]RoutePolicy, len(policies))
	copy(table, policies)
	return &PolicyEngine{policies: table}
}

// DefaultPolicies is the service route table: auth, shift, employee and leave
// surfaces are public, manager surface is MANAGER only, attendance admits
// EMPLOYEE and MANAGER, everything else requires any authenticated identity.
func DefaultPolicies() []RoutePolicy {
	return []RoutePolicy{
		{Pattern: "/api/auth/**", Public: true},
		{Pattern: "/api/shift/**", Public: true},
		{Pattern: "/api/employee/**", Public: true},
		{Pattern: "/api/leave/**", Public: true},
		{Pattern: "/api/leaveBalance/**", Public: true},
		{Pattern: "/api/manager/**", Roles: []domain.Role{domain.RoleManager}},
		{Pattern: "/api/attendance/**", Roles: []domain.Role{domain.RoleEmployee, domain.RoleManager}},
	}
}

// Decide resolves access for the given path. identity is nil for anonymous
// requests. Unmatched paths fall back to "authenticated, any role".
func (e *PolicyEngine) Decide(identity *domain.Identity, path string) Decision {
	for _, p := range e.policies {
		if !matchPattern(p.Pattern, path) {
			continue
		}
		return p.decide(identity)
	}
	// catch-all: any authenticated identity
	if identity == nil {
		return DecisionRequireAuth
	}
	return DecisionPermit
}

func (p RoutePolicy) decide(identity *domain.Identity) Decision {
	if p.Public {
		return DecisionPermit
	}
	if identity == nil {
		return DecisionRequireAuth
	}
	if len(p.Roles) == 0 {
		return DecisionPermit
	}
	for _, role := range p.Roles {
		if identity.Role == role {
			return DecisionPermit
		}
	}
	return DecisionDeny
}

// matchPattern compares path segments. "**" matches the rest of the path,
// including nothing, so "/api/x/**" covers "/api/x" and any suffix below it.
// "*" matches exactly one segment. Literal segments compare case-insensitively
// because the router may dispatch case-variant paths to the same handler; a
// policy that missed "/API/manager" would fall through to the broader
// catch-all and grant more than intended.
func matchPattern(pattern, path string) bool {
	patSegs := splitPath(pattern)
	pathSegs := splitPath(path)

	for i, seg := range patSegs {
		if seg == "**" {
			return true
		}
		if i >= len(pathSegs) {
			return false
		}
		if seg != "*" && !strings.EqualFold(seg, pathSegs[i]) {
			return false
		}
	}
	return len(patSegs) == len(pathSegs)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
