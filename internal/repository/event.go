package repository

import (
	"context"
	"time"

	"eventplanner/internal/models"

	"gorm.io/gorm"
)

// EventFilter narrows ListEvents. Zero values mean "no filter".
type EventFilter struct {
	Status    models.EventStatus
	CreatedBy uint
	// UpcomingOnly restricts to events starting at or after Now.
	UpcomingOnly bool
	Now          time.Time
	Limit        int
	Offset       int
}

// EventChanges carries the event columns to update. Nil fields are left alone.
type EventChanges struct {
	Title       *string
	Description *string
	DateTime    *time.Time
	VenueID     *uint
	Status      *models.EventStatus
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
	ListByCreator(ctx context.Context, userID uint) ([]models.Event, error)
	Update(ctx context.Context, id uint, changes EventChanges) (Result, error)
	Cancel(ctx context.Context, id uint) (Result, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

const (
	eventListColumns = `events.*,
	venues.name AS venue_name, venues.location AS venue_location, venues.capacity AS venue_capacity,
	users.username AS creator_username,
	(SELECT COUNT(*) FROM attendees a WHERE a.event_id = events.id AND a.rsvp_status = 'yes') AS confirmed_attendees`

	eventDetailColumns = eventListColumns + `, users.email AS creator_email`
)

func (r *eventRepository) joined(ctx context.Context, columns string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Event{}).
		Select(columns).
		Joins("LEFT JOIN venues ON venues.id = events.venue_id").
		Joins("LEFT JOIN users ON users.id = events.created_by")
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	event.DateTime = event.DateTime.UTC()
	if event.Status == "" {
		event.Status = models.EventPublished
	}
	return wrapError(r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.joined(ctx, eventDetailColumns).Where("events.id = ?", id).First(&event).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	q := r.joined(ctx, eventListColumns)
	if filter.Status != "" {
		q = q.Where("events.status = ?", filter.Status)
	}
	if filter.CreatedBy != 0 {
		q = q.Where("events.created_by = ?", filter.CreatedBy)
	}
	if filter.UpcomingOnly {
		now := filter.Now
		if now.IsZero() {
			now = time.Now()
		}
		q = q.Where("events.date_time >= ?", now.UTC())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	events := make([]models.Event, 0)
	if err := q.Order("events.date_time ASC").Order("events.id ASC").Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) ListByCreator(ctx context.Context, userID uint) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := r.joined(ctx, eventListColumns).
		Where("events.created_by = ?", userID).
		Order("events.date_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id uint, changes EventChanges) (Result, error) {
	cols := make(map[string]any, 5)
	if changes.Title != nil {
		cols["title"] = *changes.Title
	}
	if changes.Description != nil {
		cols["description"] = *changes.Description
	}
	if changes.DateTime != nil {
		cols["date_time"] = changes.DateTime.UTC()
	}
	if changes.VenueID != nil {
		cols["venue_id"] = *changes.VenueID
	}
	if changes.Status != nil {
		cols["status"] = *changes.Status
	}
	if len(cols) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return Result{}, models.NewInternalError(err)
		}
		return Result{Matched: count > 0}, nil
	}
	return resultOf(r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(cols))
}

// Cancel is the soft delete of an event: the row stays so RSVP history remains queryable.
func (r *eventRepository) Cancel(ctx context.Context, id uint) (Result, error) {
	return resultOf(r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", models.EventCancelled))
}
