package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/tdt-go-api/internal/models"
	"github.com/noah-isme/tdt-go-api/internal/service"
	"github.com/noah-isme/tdt-go-api/internal/utils"
)

// UserLoader resolves the token subject to an active user.
type UserLoader interface {
	CurrentUser(ctx context.Context, id uint) (models.User, error)
}

// CurrentUser loads the authenticated user after JWTProtected. The stored role replaces
// the role claim, so role changes apply to tokens issued before them.
func CurrentUser(loader UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(LocalUserID).(uint)
		if !ok || userID == 0 {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		user, err := loader.CurrentUser(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return utils.Fail(c, fiber.StatusUnauthorized, err.Error(), nil)
			}
			return utils.Fail(c, fiber.StatusInternalServerError, "failed to load user", nil)
		}

		c.Locals(LocalUserRole, user.Role)
		return c.Next()
	}
}
