package seed

import (
	"context"
	"fmt"
	"log/slog"

	"eventplanner/internal/middleware"
	"eventplanner/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	Organizers   int
	Users        int
	Events       int
	MaxRSVPs     int
	ShouldClean  bool
	Seed         int64
	BcryptCost   int
	AdminEmail   string
	VenueCatalog []byte
}

// Summary reports how many rows the seeder created.
type Summary struct {
	Users     int
	Venues    int
	Events    int
	Attendees int
}

// seededTables lists tables in dependency order, children first.
var seededTables = []string{"attendees", "events", "venues", "users"}

// Seed populates db with an admin, organizers, users, catalog venues, future events and RSVPs.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	db = db.WithContext(ctx)

	if opts.ShouldClean {
		if err := ClearData(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	catalog := opts.VenueCatalog
	if catalog == nil {
		catalog = venueCatalog
	}
	specs, err := LoadVenueCatalog(catalog)
	if err != nil {
		return nil, err
	}

	f := NewFactory(db, opts.Seed, string(hash))
	summary := &Summary{}

	admin := f.BuildUser(models.RoleAdmin, 0)
	admin.Username = "admin"
	admin.Email = "admin@example.com"
	if opts.AdminEmail != "" {
		admin.Email = opts.AdminEmail
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	summary.Users++

	organizers, err := f.CreateUsers(models.RoleOrganizer, opts.Organizers, 1)
	if err != nil {
		return nil, err
	}
	members, err := f.CreateUsers(models.RoleUser, opts.Users, 1+opts.Organizers)
	if err != nil {
		return nil, err
	}
	summary.Users += len(organizers) + len(members)

	venues, err := f.CreateVenues(specs)
	if err != nil {
		return nil, err
	}
	summary.Venues = len(venues)

	creators := append([]models.User{*admin}, organizers...)
	events, err := f.CreateEvents(creators, venues, opts.Events)
	if err != nil {
		return nil, err
	}
	summary.Events = len(events)

	attendees, err := f.CreateRSVPs(append(members, organizers...), events, opts.MaxRSVPs)
	if err != nil {
		return nil, err
	}
	summary.Attendees = attendees

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", summary.Users),
		slog.Int("venues", summary.Venues),
		slog.Int("events", summary.Events),
		slog.Int("attendees", summary.Attendees),
	)
	return summary, nil
}

// ClearData removes every seeded row. Postgres identities restart at 1.
func ClearData(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE attendees, events, venues, users RESTART IDENTITY CASCADE`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range seededTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
