package models

import "time"

// Venue capacity bounds.
const (
	MinVenueCapacity = 1
	MaxVenueCapacity = 100000
)

// Venue is a place where events are held.
type Venue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ActiveEvents counts published events at this venue; filled by list/get queries.
	ActiveEvents int64 `gorm:"->;-:migration" json:"active_events"`
}
