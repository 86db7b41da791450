// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
	"unicode"

	"eventplanner/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed venues.yml
var venueCatalog []byte

// VenueSpec is one entry of the venue catalog.
type VenueSpec struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
	Capacity int    `yaml:"capacity"`
}

// LoadVenueCatalog parses a YAML document with a top-level "venues" list.
func LoadVenueCatalog(raw []byte) ([]VenueSpec, error) {
	var doc struct {
		Venues []VenueSpec `yaml:"venues"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse venue catalog: %w", err)
	}
	for i, v := range doc.Venues {
		if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Location) == "" || v.Capacity <= 0 {
			return nil, fmt.Errorf("venue catalog entry %d is incomplete", i)
		}
	}
	return doc.Venues, nil
}

// DefaultVenues returns the embedded catalog.
func DefaultVenues() ([]VenueSpec, error) {
	return LoadVenueCatalog(venueCatalog)
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	faker        *gofakeit.Faker
	passwordHash string
	now          func() time.Time
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
// passwordHash is stored for every generated user.
func NewFactory(db *gorm.DB, seed int64, passwordHash string) *Factory {
	return &Factory{
		db:           db,
		faker:        gofakeit.New(seed),
		passwordHash: passwordHash,
		now:          time.Now,
	}
}

// username derives a handle that satisfies the username rules (letters, digits, underscore).
func username(first, last string, n int) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return unicode.ToLower(r)
			}
			return -1
		}, s)
	}
	name := fmt.Sprintf("%s_%s%d", clean(first), clean(last), n)
	if len(name) > 30 {
		name = name[len(name)-30:]
	}
	return name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// BuildUser constructs an active user with the given role. n keeps handles unique.
func (f *Factory) BuildUser(role models.Role, n int) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	handle := username(first, last, n)
	return &models.User{
		Username: handle,
		Email:    handle + "@example.com",
		Password: f.passwordHash,
		Name:     first + " " + last,
		Role:     role,
		IsActive: true,
	}
}

// CreateUsers persists count users with role, numbering handles from offset.
func (f *Factory) CreateUsers(role models.Role, count, offset int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, *f.BuildUser(role, offset+i))
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := f.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, fmt.Errorf("create %s users: %w", role, err)
	}
	return users, nil
}

// CreateVenues persists the catalog entries.
func (f *Factory) CreateVenues(specs []VenueSpec) ([]models.Venue, error) {
	venues := make([]models.Venue, 0, len(specs))
	for _, s := range specs {
		venues = append(venues, models.Venue{Name: s.Name, Location: s.Location, Capacity: s.Capacity})
	}
	if len(venues) == 0 {
		return venues, nil
	}
	if err := f.db.Create(&venues).Error; err != nil {
		return nil, fmt.Errorf("create venues: %w", err)
	}
	return venues, nil
}

// BuildEvent constructs a future event by creator at venue. Roughly one in six is a draft.
func (f *Factory) BuildEvent(creator models.User, venue models.Venue) *models.Event {
	now := f.now().UTC()
	when := f.faker.DateRange(now.Add(24*time.Hour), now.Add(90*24*time.Hour)).UTC().Truncate(time.Hour)

	status := models.EventPublished
	if f.faker.Number(1, 6) == 1 {
		status = models.EventDraft
	}

	title := fmt.Sprintf("%s %s", capitalize(f.faker.Adjective()), f.faker.RandomString([]string{
		"Meetup", "Workshop", "Conference", "Social", "Hackathon", "Concert", "Book Club", "Networking Night",
	}))
	return &models.Event{
		Title:       title,
		Description: f.faker.Paragraph(1, 3, 12, " "),
		DateTime:    when,
		VenueID:     &venue.ID,
		CreatedBy:   creator.ID,
		Status:      status,
	}
}

// CreateEvents persists count events spread over creators and venues.
func (f *Factory) CreateEvents(creators []models.User, venues []models.Venue, count int) ([]models.Event, error) {
	if count == 0 || len(creators) == 0 || len(venues) == 0 {
		return nil, nil
	}
	events := make([]models.Event, 0, count)
	for i := 0; i < count; i++ {
		creator := creators[f.faker.Number(0, len(creators)-1)]
		venue := venues[f.faker.Number(0, len(venues)-1)]
		events = append(events, *f.BuildEvent(creator, venue))
	}
	if err := f.db.CreateInBatches(&events, 100).Error; err != nil {
		return nil, fmt.Errorf("create events: %w", err)
	}
	return events, nil
}

var rsvpWeights = []models.RSVPStatus{
	models.RSVPYes, models.RSVPYes, models.RSVPYes, models.RSVPYes,
	models.RSVPMaybe, models.RSVPMaybe,
	models.RSVPNo,
	models.RSVPWaitlist,
}

// CreateRSVPs gives each published event RSVPs from a random subset of users, at most
// maxPerEvent each. A user answers an event at most once.
func (f *Factory) CreateRSVPs(users []models.User, events []models.Event, maxPerEvent int) (int, error) {
	var rows []models.Attendee
	for _, e := range events {
		if e.Status != models.EventPublished || len(users) == 0 || maxPerEvent <= 0 {
			continue
		}
		n := f.faker.Number(0, min(maxPerEvent, len(users)))
		picked := make(map[uint]bool, n)
		for len(picked) < n {
			u := users[f.faker.Number(0, len(users)-1)]
			if picked[u.ID] {
				continue
			}
			picked[u.ID] = true
			rows = append(rows, models.Attendee{
				UserID:     u.ID,
				EventID:    e.ID,
				RSVPStatus: rsvpWeights[f.faker.Number(0, len(rsvpWeights)-1)],
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := f.db.CreateInBatches(&rows, 200).Error; err != nil {
		return 0, fmt.Errorf("create rsvps: %w", err)
	}
	return len(rows), nil
}
