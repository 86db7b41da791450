package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"eventplanner/internal/middleware"
	"eventplanner/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// response is the envelope every endpoint answers with.
type response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Errors  []models.FieldError `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (s *Server) ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(response{Success: true, Message: message, Data: data})
}

// list answers with data plus its element count.
func list[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.Status(fiber.StatusOK).JSON(response{Success: true, Data: items, Count: &n})
}

// fail renders err in the envelope with the status of its kind. Internal detail is only
// exposed in development.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	body := response{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Fields,
		Code:    appErr.Kind.String(),
	}

	if appErr.Kind == models.KindInternal {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if s.config.IsDevelopment() && appErr.Err != nil {
			body.Error = appErr.Err.Error()
		}
	}

	return c.Status(appErr.Kind.Status()).JSON(body)
}

// bind parses the JSON body into dest, answering 400 on malformed input.
func (s *Server) bind(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = s.fail(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "eventId" -> "Invalid event ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = s.fail(c, models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "Id"); ok {
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// currentUser returns the user loaded by AuthRequired.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// currentUserID returns the authenticated user's ID, or 0 outside AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
