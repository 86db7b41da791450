package server

import (
	"eventplanner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=models.User}
// @Router /users/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", user)
}

// UpdateProfile handles PUT /api/users/update-profile
// @Summary Update my profile
// @Description Change name, email or username. Omitted fields are kept.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "Profile changes"
// @Success 200 {object} object{success=bool,message=string,data=models.User}
// @Failure 400 {object} object{success=bool,message=string,errors=[]models.FieldError}
// @Failure 409 {object} object{success=bool,message=string}
// @Router /users/update-profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Profile updated successfully", user)
}

// UpdatePassword handles PUT /api/users/update-password
// @Summary Change my password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdatePasswordInput true "Password change"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 401 {object} object{success=bool,message=string}
// @Router /users/update-password [put]
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req service.UpdatePasswordInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	if err := s.userService.UpdatePassword(c.UserContext(), currentUserID(c), req); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Password updated successfully", nil)
}
