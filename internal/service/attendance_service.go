package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eventplanner/internal/middleware"
	"eventplanner/internal/models"
	"eventplanner/internal/observability"
	"eventplanner/internal/repository"
	"eventplanner/internal/validation"
)

// RSVPNotifier delivers RSVP notifications to event creators.
type RSVPNotifier interface {
	PublishRSVP(ctx context.Context, creatorID, eventID, userID uint, status models.RSVPStatus) error
}

type AttendanceService struct {
	attendees repository.AttendeeRepository
	events    repository.EventRepository
	notifier  RSVPNotifier
	now       func() time.Time
}

type RSVPInput struct {
	EventID    uint              `json:"event_id" validate:"required,gte=1"`
	RSVPStatus models.RSVPStatus `json:"rsvp_status" validate:"omitempty,oneof=yes no maybe waitlist"`
}

// RSVPResult tells whether an RSVP replaced an earlier answer or created the first one.
type RSVPResult struct {
	Created    bool              `json:"created,omitempty"`
	Updated    bool              `json:"updated,omitempty"`
	ID         uint              `json:"id,omitempty"`
	RSVPStatus models.RSVPStatus `json:"rsvpStatus"`
}

type EventAttendees struct {
	Attendees []models.EventAttendee `json:"attendees"`
	Stats     models.EventStats      `json:"stats"`
}

type MyRSVPs struct {
	Upcoming []models.UserRSVP `json:"upcoming"`
	Past     []models.UserRSVP `json:"past"`
	Total    int               `json:"total"`
}

type RSVPState struct {
	HasRSVPd   bool               `json:"hasRsvpd"`
	RSVPStatus *models.RSVPStatus `json:"rsvpStatus"`
}

// NewAttendanceService wires the RSVP rules. notifier may be nil.
func NewAttendanceService(attendees repository.AttendeeRepository, events repository.EventRepository, notifier RSVPNotifier) *AttendanceService {
	return &AttendanceService{attendees: attendees, events: events, notifier: notifier, now: time.Now}
}

func (s *AttendanceService) event(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, models.NewNotFoundError("Event")
	}
	return event, nil
}

// RSVP records userID's answer for an event, replacing any earlier answer.
func (s *AttendanceService) RSVP(ctx context.Context, userID uint, in RSVPInput) (*RSVPResult, error) {
	span, ctx := observability.NewSpan(ctx, "attendance.rsvp",
		observability.UserID(userID),
		observability.EventID(in.EventID),
	)
	defer span.End()

	if in.RSVPStatus == "" {
		in.RSVPStatus = models.RSVPYes
	}
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	event, err := s.event(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if event.IsPast(s.now()) {
		return nil, models.NewBusinessRuleError("Cannot RSVP to past events")
	}
	if event.Status == models.EventCancelled {
		return nil, models.NewBusinessRuleError("Cannot RSVP to cancelled events")
	}

	result, err := s.upsert(ctx, userID, in.EventID, in.RSVPStatus)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	outcome := "created"
	if result.Updated {
		outcome = "updated"
	}
	observability.RSVPOperations.WithLabelValues(outcome).Inc()
	span.AddAttributes(observability.AttrRSVPResult.String(outcome))

	s.notify(ctx, event, userID, in.RSVPStatus)
	return result, nil
}

func (s *AttendanceService) upsert(ctx context.Context, userID, eventID uint, status models.RSVPStatus) (*RSVPResult, error) {
	existing, err := s.attendees.Find(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		row := &models.Attendee{UserID: userID, EventID: eventID, RSVPStatus: status}
		err := s.attendees.Create(ctx, row)
		if err == nil {
			return &RSVPResult{Created: true, ID: row.ID, RSVPStatus: status}, nil
		}
		// A concurrent request inserted the pair first; fall through to the update.
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
	}

	res, err := s.attendees.UpdateStatus(ctx, userID, eventID, status)
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, models.NewNotFoundError("RSVP")
	}
	return &RSVPResult{Updated: true, RSVPStatus: status}, nil
}

func (s *AttendanceService) notify(ctx context.Context, event *models.Event, userID uint, status models.RSVPStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishRSVP(ctx, event.CreatedBy, event.ID, userID, status); err != nil {
		middleware.Logger.WarnContext(ctx, "rsvp notification failed",
			slog.Uint64("event_id", uint64(event.ID)),
			slog.String("error", err.Error()))
	}
}

func (s *AttendanceService) Cancel(ctx context.Context, userID, eventID uint) error {
	existing, err := s.attendees.Find(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.NewNotFoundError("RSVP")
	}

	res, err := s.attendees.Delete(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if !res.Matched {
		return models.NewNotFoundError("RSVP")
	}
	observability.RSVPOperations.WithLabelValues("cancelled").Inc()
	return nil
}

func (s *AttendanceService) EventAttendees(ctx context.Context, eventID uint) (*EventAttendees, error) {
	if _, err := s.event(ctx, eventID); err != nil {
		return nil, err
	}
	attendees, err := s.attendees.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	stats, err := s.attendees.Stats(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventAttendees{Attendees: attendees, Stats: stats}, nil
}

// MyRSVPs splits the user's RSVPs into upcoming and past at read time.
func (s *AttendanceService) MyRSVPs(ctx context.Context, userID uint) (*MyRSVPs, error) {
	rsvps, err := s.attendees.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &MyRSVPs{
		Upcoming: make([]models.UserRSVP, 0),
		Past:     make([]models.UserRSVP, 0),
		Total:    len(rsvps),
	}
	for _, r := range rsvps {
		if r.DateTime.After(now) {
			out.Upcoming = append(out.Upcoming, r)
		} else {
			out.Past = append(out.Past, r)
		}
	}
	return out, nil
}

func (s *AttendanceService) Status(ctx context.Context, userID, eventID uint) (*RSVPState, error) {
	existing, err := s.attendees.Find(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &RSVPState{}, nil
	}
	status := existing.RSVPStatus
	return &RSVPState{HasRSVPd: true, RSVPStatus: &status}, nil
}
