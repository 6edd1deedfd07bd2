package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the resolved caller for one request. Anonymous
// requests through public routes carry a Principal with a nil Identity.
type Principal struct {
	Identity *domain.Identity
}

// Middleware resolves bearer tokens and enforces the route policy table.
type Middleware struct {
	tokens   *TokenManager
	policies *PolicyEngine
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewMiddleware constructs the per-request authentication pipeline.
func NewMiddleware(tokens *TokenManager, policies *PolicyEngine, logger *zap.Logger, metrics *observability.Metrics) *Middleware {
	return &Middleware{tokens: tokens, policies: policies, logger: logger, metrics: metrics}
}

// Handle runs once per request: extract bearer token, resolve an identity,
// ask the policy engine, then forward or reject. A token that fails to decode
// is treated as absent; the policy engine alone decides the outcome.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	principal, resolved := PrincipalFromContext(c)
	if !resolved {
		principal = &Principal{Identity: m.resolveIdentity(c)}
		c.Locals(principalKey, principal)
	}

	decision := m.policies.Decide(principal.Identity, c.Path())
	m.metrics.RecordAuthDecision(c.Path(), decision.String())

	switch decision {
	case DecisionPermit:
		return c.Next()
	case DecisionDeny:
		m.logger.Warn("role not permitted",
			zap.String("path", c.Path()),
			zap.String("subject", principal.Identity.Subject),
			zap.String("role", string(principal.Identity.Role)))
		return apperrors.NewForbidden("insufficient role")
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
}

// resolveIdentity reads the Authorization header and decodes the bearer
// token if one is present. Absent or malformed headers and undecodable
// tokens all resolve to nil rather than failing the request.
func (m *Middleware) resolveIdentity(c *fiber.Ctx) *domain.Identity {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	identity, err := m.tokens.Decode(parts[1])
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			m.logger.Debug("expired token presented", zap.String("path", c.Path()))
		case errors.Is(err, ErrTokenSignatureInvalid):
			m.logger.Warn("token signature rejected", zap.String("path", c.Path()))
		default:
			m.logger.Debug("malformed token presented", zap.String("path", c.Path()))
		}
		return nil
	}
	return &identity
}

// PrincipalFromContext retrieves the resolved caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// IdentityFromContext returns the authenticated identity, or false for
// anonymous requests.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Identity == nil {
		return nil, false
	}
	return principal.Identity, true
}
