package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hatchops/internal/model"
	"hatchops/internal/service"
)

// ActorLocalKey is the fiber locals key holding the authenticated model.Actor.
const ActorLocalKey = "actor"

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header and stores the
// caller as a model.Actor in locals.
func Auth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization must be 'Bearer <token>'")
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ActorLocalKey, claims.Actor())
		return c.Next()
	}
}

// RequireRole lets the request through only when the actor holds one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// ActorFrom returns the actor stored by Auth.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	a, ok := c.Locals(ActorLocalKey).(model.Actor)
	return a, ok
}
