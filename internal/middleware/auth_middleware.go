package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/models"
	"github.com/khojapp/khoj-server/internal/services"
)

const userKey = "user"

// Authenticator verifies credentials and resolves them to live accounts.
// *services.AuthService satisfies it; tests use a stub.
type Authenticator interface {
	ParseToken(token string) (*services.Claims, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Auth returns a middleware that requires a valid bearer credential. The
// claims are never trusted alone: the user id is resolved against the
// store on every request, so deleted accounts lose access immediately.
func Auth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return apperr.Authentication("Missing token")
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return apperr.Authentication("Invalid token format")
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			return err
		}
		user, err := auth.UserByID(c.Context(), claims.UserID)
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequestUser returns the authenticated user stored by Auth.
func RequestUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
