package server

import (
	"eventplanner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetVenues handles GET /api/venues
// @Summary List venues
// @Tags venues
// @Produce json
// @Success 200 {object} object{success=bool,count=int,data=[]models.Venue}
// @Router /venues [get]
func (s *Server) GetVenues(c *fiber.Ctx) error {
	venues, err := s.venueService.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return list(c, venues)
}

// GetVenue handles GET /api/venues/:id
// @Summary Get venue
// @Tags venues
// @Produce json
// @Param id path int true "Venue ID"
// @Success 200 {object} object{success=bool,data=models.Venue}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /venues/{id} [get]
func (s *Server) GetVenue(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	venue, err := s.venueService.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", venue)
}

// CreateVenue handles POST /api/venues
// @Summary Create venue
// @Description Admins and organizers only
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateVenueInput true "Venue"
// @Success 201 {object} object{success=bool,message=string,data=models.Venue}
// @Failure 403 {object} object{success=bool,message=string}
// @Router /venues [post]
func (s *Server) CreateVenue(c *fiber.Ctx) error {
	var req service.CreateVenueInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	venue, err := s.venueService.Create(c.UserContext(), currentUser(c), req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusCreated, "Venue created successfully", venue)
}

// UpdateVenue handles PUT /api/venues/:id
// @Summary Update venue
// @Description Admins only
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Venue ID"
// @Param request body service.UpdateVenueInput true "Venue changes"
// @Success 200 {object} object{success=bool,message=string,data=models.Venue}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /venues/{id} [put]
func (s *Server) UpdateVenue(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateVenueInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	venue, err := s.venueService.Update(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Venue updated successfully", venue)
}

// DeleteVenue handles DELETE /api/venues/:id
// @Summary Delete venue
// @Description Admins only. Refused while the venue hosts draft or published events.
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Venue ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,message=string}
// @Router /venues/{id} [delete]
func (s *Server) DeleteVenue(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.venueService.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Venue deleted successfully", nil)
}
