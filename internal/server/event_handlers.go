package server

import (
	"strconv"

	"eventplanner/internal/models"
	"eventplanner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetEvents handles GET /api/events
// @Summary List events
// @Description Upcoming events by default. Pass upcoming=false to include past ones.
// @Tags events
// @Produce json
// @Param status query string false "draft, published, cancelled or completed"
// @Param created_by query int false "Creator user ID"
// @Param upcoming query bool false "Only future events (default true)"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,count=int,data=[]models.Event}
// @Router /events [get]
func (s *Server) GetEvents(c *fiber.Ctx) error {
	in := service.ListEventsInput{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("created_by"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return s.fail(c, models.NewValidationError("Invalid created_by"))
		}
		in.CreatedBy = uint(id)
	}
	// Only the literal "false" widens the listing to past events.
	if raw := c.Query("upcoming"); raw != "" {
		upcoming := raw != "false"
		in.Upcoming = &upcoming
	}

	events, err := s.eventService.List(c.UserContext(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return list(c, events)
}

// GetMyEvents handles GET /api/events/user/my-events
// @Summary List my events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,count=int,data=[]models.Event}
// @Router /events/user/my-events [get]
func (s *Server) GetMyEvents(c *fiber.Ctx) error {
	events, err := s.eventService.MyEvents(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return list(c, events)
}

// GetEvent handles GET /api/events/:id
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} object{success=bool,data=models.Event}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /events/{id} [get]
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	event, err := s.eventService.Get(c.UserContext(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", event)
}

// CreateEvent handles POST /api/events
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateEventInput true "Event"
// @Success 201 {object} object{success=bool,message=string,data=models.Event}
// @Failure 400 {object} object{success=bool,message=string,errors=[]models.FieldError}
// @Failure 429 {object} object{success=bool,message=string}
// @Router /events [post]
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req service.CreateEventInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	event, err := s.eventService.Create(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusCreated, "Event created successfully", event)
}

// UpdateEvent handles PUT /api/events/:id
// @Summary Update event
// @Description Creator or admin only
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body service.UpdateEventInput true "Event changes"
// @Success 200 {object} object{success=bool,message=string,data=models.Event}
// @Failure 403 {object} object{success=bool,message=string}
// @Router /events/{id} [put]
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateEventInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	event, err := s.eventService.Update(c.UserContext(), currentUser(c), id, req)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Event updated successfully", event)
}

// DeleteEvent handles DELETE /api/events/:id. The event is cancelled, not removed.
// @Summary Cancel event
// @Description Creator or admin only
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 403 {object} object{success=bool,message=string}
// @Router /events/{id} [delete]
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.eventService.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "Event cancelled successfully", nil)
}
