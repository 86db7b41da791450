package service

import (
	"context"
	"strings"
	"time"

	"eventplanner/internal/models"
	"eventplanner/internal/observability"
	"eventplanner/internal/repository"
	"eventplanner/internal/validation"
)

// MaxEventPageSize caps an explicit limit. Without one every matching event is returned.
const MaxEventPageSize = 100

type EventService struct {
	events repository.EventRepository
	venues repository.VenueRepository
	now    func() time.Time
}

type CreateEventInput struct {
	Title       string             `json:"title" validate:"required,min=3,max=255"`
	Description string             `json:"description" validate:"required,min=10"`
	DateTime    string             `json:"date_time" validate:"required"`
	VenueID     uint               `json:"venue_id" validate:"required,gte=1"`
	Status      models.EventStatus `json:"status" validate:"omitempty,oneof=draft published cancelled completed"`
}

type UpdateEventInput struct {
	Title       *string             `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string             `json:"description" validate:"omitempty,min=10"`
	DateTime    *string             `json:"date_time"`
	VenueID     *uint               `json:"venue_id" validate:"omitempty,gte=1"`
	Status      *models.EventStatus `json:"status" validate:"omitempty,oneof=draft published cancelled completed"`
}

// ListEventsInput mirrors the query string of GET /api/events. A nil Upcoming means true.
type ListEventsInput struct {
	Status    string
	CreatedBy uint
	Upcoming  *bool
	Limit     int
	Offset    int
}

func NewEventService(events repository.EventRepository, venues repository.VenueRepository) *EventService {
	return &EventService{events: events, venues: venues, now: time.Now}
}

// futureDate parses raw and requires it to be strictly after now.
func (s *EventService) futureDate(raw string) (time.Time, *models.FieldError) {
	t, err := validation.ParseDateTime(raw)
	if err != nil {
		return time.Time{}, &models.FieldError{Field: "date_time", Message: "Invalid date format"}
	}
	if !t.After(s.now()) {
		return time.Time{}, &models.FieldError{Field: "date_time", Message: "Event date must be in the future"}
	}
	return t, nil
}

func (s *EventService) requireVenue(ctx context.Context, id uint) error {
	ok, err := s.venues.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Venue")
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, creatorID uint, in CreateEventInput) (*models.Event, error) {
	span, ctx := observability.NewSpan(ctx, "events.create", observability.UserID(creatorID))
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	fields := validation.Struct(in)
	var when time.Time
	if in.DateTime != "" {
		t, fe := s.futureDate(in.DateTime)
		if fe != nil {
			fields = append(fields, *fe)
		}
		when = t
	}
	if len(fields) > 0 {
		return nil, models.NewValidationError("Validation failed", fields...)
	}

	if err := s.requireVenue(ctx, in.VenueID); err != nil {
		return nil, err
	}

	venueID := in.VenueID
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		DateTime:    when,
		VenueID:     &venueID,
		CreatedBy:   creatorID,
		Status:      in.Status,
	}
	if err := s.events.Create(ctx, event); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(observability.EventID(event.ID))
	return s.Get(ctx, event.ID)
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.NewNotFoundError("Event")
	}
	return event, nil
}

// authorize loads the event and requires actor to be its creator or an admin.
func (s *EventService) authorize(ctx context.Context, actor *models.User, id uint, denied string) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || (event.CreatedBy != actor.ID && !actor.IsAdmin()) {
		return nil, models.NewAuthorizationError(denied)
	}
	return event, nil
}

func (s *EventService) Update(ctx context.Context, actor *models.User, id uint, in UpdateEventInput) (*models.Event, error) {
	if _, err := s.authorize(ctx, actor, id, "Not authorized to update this event"); err != nil {
		return nil, err
	}

	in.Title = trimPtr(in.Title, false)
	in.Description = trimPtr(in.Description, false)

	fields := validation.Struct(in)
	changes := repository.EventChanges{
		Title:       in.Title,
		Description: in.Description,
		VenueID:     in.VenueID,
		Status:      in.Status,
	}
	if in.DateTime != nil {
		t, fe := s.futureDate(*in.DateTime)
		if fe != nil {
			fields = append(fields, *fe)
		}
		changes.DateTime = &t
	}
	if len(fields) > 0 {
		return nil, models.NewValidationError("Validation failed", fields...)
	}

	if in.VenueID != nil {
		if err := s.requireVenue(ctx, *in.VenueID); err != nil {
			return nil, err
		}
	}

	res, err := s.events.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, models.NewNotFoundError("Event")
	}
	return s.Get(ctx, id)
}

// Delete cancels the event; the row is kept.
func (s *EventService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.authorize(ctx, actor, id, "Not authorized to delete this event"); err != nil {
		return err
	}
	res, err := s.events.Cancel(ctx, id)
	if err != nil {
		return err
	}
	if !res.Matched {
		return models.NewNotFoundError("Event")
	}
	return nil
}

func (s *EventService) List(ctx context.Context, in ListEventsInput) ([]models.Event, error) {
	filter := repository.EventFilter{
		CreatedBy:    in.CreatedBy,
		UpcomingOnly: in.Upcoming == nil || *in.Upcoming,
		Now:          s.now(),
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if in.Status != "" {
		status := models.EventStatus(strings.ToLower(strings.TrimSpace(in.Status)))
		if !status.Valid() {
			return nil, models.NewValidationError("Validation failed", models.FieldError{
				Field:   "status",
				Message: "status must be one of: draft, published, cancelled, completed",
			})
		}
		filter.Status = status
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Limit > MaxEventPageSize {
		filter.Limit = MaxEventPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.events.List(ctx, filter)
}

// MyEvents lists every event created by userID, whatever its status or date.
func (s *EventService) MyEvents(ctx context.Context, userID uint) ([]models.Event, error) {
	return s.events.ListByCreator(ctx, userID)
}
