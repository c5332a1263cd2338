package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Agent is non-nil only when
// the user is paired with an agent record.
type Principal struct {
	User  *domain.User
	Agent *domain.Agent
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	return p.User.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	agents repository.AgentRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, agents repository.AgentRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, agents: agents}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{User: user}
	if user.Role == domain.RoleAgent {
		agent, err := m.agents.GetByUserID(c.Context(), user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return apperrors.MapError(err)
		}
		principal.Agent = agent
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
