package models

import "time"

// RSVPStatus is a user's stated intention for one event.
type RSVPStatus string

const (
	RSVPYes      RSVPStatus = "yes"
	RSVPNo       RSVPStatus = "no"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPWaitlist RSVPStatus = "waitlist"
)

// Valid reports whether s is a known RSVP status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPYes, RSVPNo, RSVPMaybe, RSVPWaitlist:
		return true
	}
	return false
}

// Attendee is the single RSVP row of a user for an event.
type Attendee struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_attendees_user_event" json:"user_id"`
	EventID    uint       `gorm:"not null;uniqueIndex:idx_attendees_user_event;index" json:"event_id"`
	RSVPStatus RSVPStatus `gorm:"column:rsvp_status;size:20;not null;default:yes" json:"rsvp_status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// EventAttendee is an attendee row joined with the user's identity.
type EventAttendee struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	EventID    uint       `json:"event_id"`
	RSVPStatus RSVPStatus `gorm:"column:rsvp_status" json:"rsvp_status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
}

// UserRSVP is a user's RSVP joined with the event and its venue.
type UserRSVP struct {
	ID            uint        `json:"id"`
	EventID       uint        `json:"event_id"`
	RSVPStatus    RSVPStatus  `gorm:"column:rsvp_status" json:"rsvp_status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DateTime      time.Time   `gorm:"column:date_time" json:"date_time"`
	EventStatus   EventStatus `json:"event_status"`
	VenueName     *string     `json:"venue_name"`
	VenueLocation *string     `json:"venue_location"`
}

// EventStats are the per-status RSVP counts of an event.
type EventStats struct {
	Confirmed      int64 `json:"confirmed"`
	Maybe          int64 `json:"maybe"`
	Declined       int64 `json:"declined"`
	Waitlisted     int64 `json:"waitlisted"`
	TotalResponses int64 `json:"total_responses"`
}
