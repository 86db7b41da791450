// Command admin provides operator tasks: role changes, account deactivation
// and a live tail of RSVP notifications.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"eventplanner/internal/bootstrap"
	"eventplanner/internal/cache"
	"eventplanner/internal/config"
	"eventplanner/internal/models"
	"eventplanner/internal/notifications"
	"eventplanner/internal/repository"
	"eventplanner/internal/service"

	"github.com/joho/godotenv"
)

const usageText = `usage: go run ./cmd/admin <command> [args]

commands:
  set-role <email> <user|organizer|admin>
  list-admins
  deactivate <email>
  watch-notifications`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usageText) }
	flag.Parse()
	if flag.NArg() < 1 {
		return errors.New(usageText)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := strings.ToLower(flag.Arg(0))
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{
		SkipSchema: true,
		SkipRedis:  cmd != "watch-notifications",
	})
	if err != nil {
		return err
	}

	users := service.NewUserService(repository.NewUserRepository(db, cache.NewStore(rdb)), cfg.BcryptCost)

	switch cmd {
	case "set-role":
		if flag.NArg() != 3 {
			return errors.New(usageText)
		}
		user, err := users.SetRoleByEmail(ctx, flag.Arg(1), models.Role(strings.ToLower(flag.Arg(2))))
		if err != nil {
			return err
		}
		log.Printf("user %d (%s) is now %s", user.ID, user.Email, user.Role)
	case "list-admins":
		admins, err := users.ListByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		for _, u := range admins {
			fmt.Printf("%d\t%s\t%s\n", u.ID, u.Username, u.Email)
		}
	case "deactivate":
		if flag.NArg() != 2 {
			return errors.New(usageText)
		}
		if err := users.DeactivateByEmail(ctx, flag.Arg(1)); err != nil {
			return err
		}
		log.Printf("deactivated %s", flag.Arg(1))
	case "watch-notifications":
		if rdb == nil {
			return errors.New("REDIS_URL is not set or redis is unreachable")
		}
		err := notifications.NewNotifier(rdb).StartUserSubscriber(ctx, func(channel, payload string) {
			fmt.Printf("%s %s\n", channel, payload)
		})
		if err != nil {
			return err
		}
		log.Println("watching notifications, press Ctrl+C to stop")
		<-ctx.Done()
	default:
		return errors.New(usageText)
	}
	return nil
}
