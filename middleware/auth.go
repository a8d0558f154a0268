// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contest-hub-service/models"
)

// UserContextMiddleware extracts the identity the Gateway resolved from
// the auth provider's token: user id, email and role headers. Secured
// routes reject requests that arrive without an email. The email is
// normalized here, once — everything downstream (registrations,
// submissions, ownership checks) keys on the lowercased form.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		email := strings.ToLower(strings.TrimSpace(c.Get("X-User-Email")))
		roleStr := c.Get("X-User-Role")

		if email == "" {
			log.Printf("❌ [USER_CTX] X-User-Email missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user context — request must come through gateway with auth context",
			})
		}

		role, err := models.ParseRole(roleStr)
		if err != nil {
			// Unknown or absent role header degrades to plain user
			role = models.RoleUser
		}

		c.Locals("user_id", userID)
		c.Locals("user_email", email)
		c.Locals("user_role", role)

		return c.Next()
	}
}

// RequireRole allows only the listed roles through. The user-context
// middleware must run first.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(models.Role)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user context",
			})
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		log.Printf("🚫 [RBAC] role %s denied for %s", role, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient role",
		})
	}
}

// UserEmail reads the authenticated email out of the request context.
func UserEmail(c *fiber.Ctx) string {
	if email, ok := c.Locals("user_email").(string); ok {
		return email
	}
	return ""
}
