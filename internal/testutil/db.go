// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"eventplanner/internal/database"
	"eventplanner/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB returns an isolated in-memory sqlite database with the full schema applied.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open(sqlite.Open(name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// CreateUser inserts an active user with a cheap bcrypt hash of password.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateVenue inserts a venue.
func CreateVenue(t testing.TB, db *gorm.DB, name string, capacity int) *models.Venue {
	t.Helper()

	v := &models.Venue{Name: name, Location: name + " Street 1", Capacity: capacity}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create venue %s: %v", name, err)
	}
	return v
}

// CreateEvent inserts an event at venue (may be nil) starting at when.
func CreateEvent(t testing.TB, db *gorm.DB, title string, creator *models.User, venue *models.Venue, when time.Time, status models.EventStatus) *models.Event {
	t.Helper()

	e := &models.Event{
		Title:       title,
		Description: "An event used by tests.",
		DateTime:    when.UTC(),
		CreatedBy:   creator.ID,
		Status:      status,
	}
	if venue != nil {
		e.VenueID = &venue.ID
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return e
}
