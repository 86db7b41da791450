package server

import (
	"strings"

	"eventplanner/internal/middleware"
	"eventplanner/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired verifies the bearer token and loads the active user behind it.
// The user is stored in locals under "user" and its ID under "userID".
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			return s.fail(c, models.NewAuthenticationError("Not authorized, no token"))
		}

		userID, err := s.authService.ParseToken(tokenString)
		if err != nil {
			return s.fail(c, err)
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return s.fail(c, err)
		}
		if user == nil {
			return s.fail(c, models.NewAuthenticationError("User not found or inactive"))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// RolesRequired rejects users holding none of roles with 403.
// Must be placed after AuthRequired so that the user is available in locals.
func (s *Server) RolesRequired(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).HasRole(roles...) {
			return s.fail(c, models.NewAuthorizationError("Access denied. Insufficient permissions."))
		}
		return c.Next()
	}
}
