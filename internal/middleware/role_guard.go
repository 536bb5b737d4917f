package middleware

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDHeader carries the authenticated user id. Authentication itself
	// happens upstream; this service only enforces roles.
	UserIDHeader = "X-User-ID"

	// UserIDKey is the fiber locals key the user id is stored under.
	UserIDKey = "userID"
)

// RequireRole resolves the caller from the user id header and rejects the
// request unless the account is active and holds the given role. The user id
// is stored in locals for handlers.
func RequireRole(users service.UserService, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(UserIDHeader)
		if userID == "" {
			return domain.NewUnauthorizedError("user id header is missing")
		}
		if err := users.Authorize(c.Context(), userID, role); err != nil {
			return err
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by RequireRole.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
