package models

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventPublished, EventCancelled, EventCompleted:
		return true
	}
	return false
}

// ActiveEventStatuses block venue deletion.
var ActiveEventStatuses = []EventStatus{EventPublished, EventDraft}

// Event is a scheduled gathering at an optional venue.
type Event struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	DateTime    time.Time   `gorm:"column:date_time;not null;index" json:"date_time"`
	VenueID     *uint       `gorm:"index" json:"venue_id"`
	CreatedBy   uint        `gorm:"not null;index" json:"created_by"`
	Status      EventStatus `gorm:"size:20;not null;default:published;index" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	VenueName          *string `gorm:"->;-:migration" json:"venue_name"`
	VenueLocation      *string `gorm:"->;-:migration" json:"venue_location"`
	VenueCapacity      *int    `gorm:"->;-:migration" json:"venue_capacity"`
	CreatorUsername    string  `gorm:"->;-:migration" json:"creator_username,omitempty"`
	CreatorEmail       string  `gorm:"->;-:migration" json:"creator_email,omitempty"`
	ConfirmedAttendees int64   `gorm:"->;-:migration" json:"confirmed_attendees"`
}

// IsPast reports whether the event starts at or before now.
func (e *Event) IsPast(now time.Time) bool {
	return !e.DateTime.After(now)
}
