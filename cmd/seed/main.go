// Command seed populates the database with demo users, venues, events and RSVPs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"eventplanner/internal/bootstrap"
	"eventplanner/internal/config"
	"eventplanner/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	organizers := flag.Int("organizers", 3, "number of organizer accounts")
	users := flag.Int("users", 20, "number of regular user accounts")
	events := flag.Int("events", 15, "number of events")
	rsvps := flag.Int("rsvps", 8, "maximum RSVPs per published event")
	clean := flag.Bool("clean", false, "remove existing data before seeding")
	seedValue := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() {
		return errors.New("refusing to seed a production database")
	}

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return err
	}

	summary, err := seed.Seed(ctx, db, seed.Options{
		Organizers:  *organizers,
		Users:       *users,
		Events:      *events,
		MaxRSVPs:    *rsvps,
		ShouldClean: *clean,
		Seed:        *seedValue,
		BcryptCost:  cfg.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Printf("seeded %d users, %d venues, %d events, %d rsvps (password %q)",
		summary.Users, summary.Venues, summary.Events, summary.Attendees, seed.DefaultPassword)
	return nil
}
