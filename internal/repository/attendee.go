package repository

import (
	"context"

	"eventplanner/internal/models"

	"gorm.io/gorm"
)

// AttendeeRepository defines persistence operations for RSVPs.
type AttendeeRepository interface {
	Find(ctx context.Context, userID, eventID uint) (*models.Attendee, error)
	Create(ctx context.Context, attendee *models.Attendee) error
	UpdateStatus(ctx context.Context, userID, eventID uint, status models.RSVPStatus) (Result, error)
	Delete(ctx context.Context, userID, eventID uint) (Result, error)
	ListByEvent(ctx context.Context, eventID uint) ([]models.EventAttendee, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserRSVP, error)
	Stats(ctx context.Context, eventID uint) (models.EventStats, error)
}

type attendeeRepository struct {
	db *gorm.DB
}

// NewAttendeeRepository returns a new AttendeeRepository implementation.
func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &attendeeRepository{db: db}
}

func (r *attendeeRepository) pair(ctx context.Context, userID, eventID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Attendee{}).
		Where("user_id = ? AND event_id = ?", userID, eventID)
}

func (r *attendeeRepository) Find(ctx context.Context, userID, eventID uint) (*models.Attendee, error) {
	var attendee models.Attendee
	if err := r.pair(ctx, userID, eventID).First(&attendee).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &attendee, nil
}

// Create inserts a new RSVP. A concurrent insert for the same pair yields ErrDuplicate.
func (r *attendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	return wrapError(r.db.WithContext(ctx).Create(attendee).Error)
}

func (r *attendeeRepository) UpdateStatus(ctx context.Context, userID, eventID uint, status models.RSVPStatus) (Result, error) {
	return resultOf(r.pair(ctx, userID, eventID).Update("rsvp_status", status))
}

func (r *attendeeRepository) Delete(ctx context.Context, userID, eventID uint) (Result, error) {
	return resultOf(r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.Attendee{}))
}

func (r *attendeeRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.EventAttendee, error) {
	out := make([]models.EventAttendee, 0)
	err := r.db.WithContext(ctx).
		Table("attendees AS a").
		Select(`a.id, a.user_id, a.event_id, a.rsvp_status, a.created_at, a.updated_at,
			u.username, u.email, COALESCE(u.name, '') AS name`).
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.event_id = ?", eventID).
		Order("a.created_at DESC").
		Order("a.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *attendeeRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserRSVP, error) {
	out := make([]models.UserRSVP, 0)
	err := r.db.WithContext(ctx).
		Table("attendees AS a").
		Select(`a.id, a.event_id, a.rsvp_status, a.created_at, a.updated_at,
			e.title, e.description, e.date_time, e.status AS event_status,
			v.name AS venue_name, v.location AS venue_location`).
		Joins("JOIN events e ON e.id = a.event_id").
		Joins("LEFT JOIN venues v ON v.id = e.venue_id").
		Where("a.user_id = ?", userID).
		Order("e.date_time ASC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// Stats computes the per-status counts in a single aggregate. COUNT never yields NULL,
// so an event without responses reports zeros.
func (r *attendeeRepository) Stats(ctx context.Context, eventID uint) (models.EventStats, error) {
	var stats models.EventStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(CASE WHEN rsvp_status = 'yes' THEN 1 END) AS confirmed,
			COUNT(CASE WHEN rsvp_status = 'maybe' THEN 1 END) AS maybe,
			COUNT(CASE WHEN rsvp_status = 'no' THEN 1 END) AS declined,
			COUNT(CASE WHEN rsvp_status = 'waitlist' THEN 1 END) AS waitlisted,
			COUNT(*) AS total_responses
		FROM attendees
		WHERE event_id = ?`, eventID).Scan(&stats).Error
	if err != nil {
		return models.EventStats{}, models.NewInternalError(err)
	}
	return stats, nil
}
