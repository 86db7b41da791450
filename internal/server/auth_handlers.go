package server

import (
	"eventplanner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create a user account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration request"
// @Success 201 {object} object{success=bool,message=string,data=service.AuthResult}
// @Failure 400 {object} object{success=bool,message=string,errors=[]models.FieldError}
// @Failure 409 {object} object{success=bool,message=string}
// @Failure 429 {object} object{success=bool,message=string}
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusCreated, "User registered successfully", result)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login request"
// @Success 200 {object} object{success=bool,message=string,data=service.AuthResult}
// @Failure 401 {object} object{success=bool,message=string}
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Login successful", result)
}

// GetMe handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=models.User}
// @Failure 401 {object} object{success=bool,message=string}
// @Router /auth/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	return s.ok(c, fiber.StatusOK, "", currentUser(c))
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so the client discards its copy.
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	return s.ok(c, fiber.StatusOK, "Logged out successfully", nil)
}
