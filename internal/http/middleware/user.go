package middleware

import (
	"github.com/gofiber/fiber/v2"

	"appsamples/internal/auth"
)

// UserLocalKey stores the signed-in auth.User in Fiber's context locals.
const UserLocalKey = "user"

// User resolves the signed-in user from the X-User-Email header set by the fronting proxy.
// Requests without a valid address continue anonymously.
func User(isAdmin func(string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if u, ok := auth.ParseUser(c.Get(auth.UserHeader), isAdmin); ok {
			c.Locals(UserLocalKey, u)
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by User.
func CurrentUser(c *fiber.Ctx) (auth.User, bool) {
	u, ok := c.Locals(UserLocalKey).(auth.User)
	return u, ok
}

// RequireUser rejects anonymous requests with 401.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUser(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "login required")
		}
		return c.Next()
	}
}
