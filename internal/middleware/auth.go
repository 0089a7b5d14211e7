package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/konveksi/internal/config"
	"github.com/example/konveksi/internal/models"
	"github.com/example/konveksi/internal/services"
	"github.com/example/konveksi/internal/utils"
)

const actorContextKey = "currentActor"

// AuthMiddleware validates JWT tokens and loads the acting user into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		identity, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(actorContextKey, services.Actor{
			ID:   identity.UserID,
			Name: identity.Name,
			Role: identity.Role,
		})
		return c.Next()
	}
}

// RequireRoles rejects requests whose actor is not one of the given roles.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetCurrentActor(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

// GetCurrentActor extracts the authenticated actor from context.
func GetCurrentActor(c *fiber.Ctx) (services.Actor, bool) {
	value := c.Locals(actorContextKey)
	if value == nil {
		return services.Actor{}, false
	}

	if actor, ok := value.(services.Actor); ok {
		return actor, true
	}

	return services.Actor{}, false
}
