package server

import (
	"eventplanner/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RSVP handles POST /api/attendees/rsvp
// @Summary RSVP to an event
// @Description Creates the caller's RSVP or replaces the earlier answer. rsvp_status defaults to yes.
// @Tags attendees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.RSVPInput true "RSVP"
// @Success 200 {object} object{success=bool,message=string,data=service.RSVPResult}
// @Failure 400 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /attendees/rsvp [post]
func (s *Server) RSVP(c *fiber.Ctx) error {
	var req service.RSVPInput
	if err := s.bind(c, &req); err != nil {
		return nil
	}

	result, err := s.attendanceService.RSVP(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.fail(c, err)
	}
	message := "RSVP created successfully"
	if result.Updated {
		message = "RSVP updated successfully"
	}
	return s.ok(c, fiber.StatusOK, message, result)
}

// GetEventAttendees handles GET /api/attendees/event/:eventId
// @Summary Event attendees
// @Description Attendee list with per-status counts
// @Tags attendees
// @Produce json
// @Param eventId path int true "Event ID"
// @Success 200 {object} object{success=bool,data=service.EventAttendees}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /attendees/event/{eventId} [get]
func (s *Server) GetEventAttendees(c *fiber.Ctx) error {
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	view, err := s.attendanceService.EventAttendees(c.UserContext(), eventID)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", view)
}

// GetMyRSVPs handles GET /api/attendees/my-rsvps
// @Summary My RSVPs
// @Description The caller's RSVPs split into upcoming and past events
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,data=service.MyRSVPs}
// @Router /attendees/my-rsvps [get]
func (s *Server) GetMyRSVPs(c *fiber.Ctx) error {
	out, err := s.attendanceService.MyRSVPs(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", out)
}

// GetRSVPStatus handles GET /api/attendees/status/:eventId
// @Summary My RSVP status for an event
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Success 200 {object} object{success=bool,data=service.RSVPState}
// @Router /attendees/status/{eventId} [get]
func (s *Server) GetRSVPStatus(c *fiber.Ctx) error {
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	state, err := s.attendanceService.Status(c.UserContext(), currentUserID(c), eventID)
	if err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "", state)
}

// CancelRSVP handles DELETE /api/attendees/cancel/:eventId
// @Summary Cancel my RSVP
// @Tags attendees
// @Produce json
// @Security BearerAuth
// @Param eventId path int true "Event ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,message=string}
// @Router /attendees/cancel/{eventId} [delete]
func (s *Server) CancelRSVP(c *fiber.Ctx) error {
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	if err := s.attendanceService.Cancel(c.UserContext(), currentUserID(c), eventID); err != nil {
		return s.fail(c, err)
	}
	return s.ok(c, fiber.StatusOK, "RSVP cancelled successfully", nil)
}
