// Package server contains the HTTP handlers and routing of the event planner API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "eventplanner/docs" // swagger docs
	"eventplanner/internal/cache"
	"eventplanner/internal/config"
	"eventplanner/internal/middleware"
	"eventplanner/internal/models"
	"eventplanner/internal/notifications"
	"eventplanner/internal/repository"
	"eventplanner/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	authRateLimit        = 5
	authRateWindow       = 15 * time.Minute
	eventCreateRateLimit = 10
	eventCreateWindow    = time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	rateLimiter    *middleware.RateLimiter
	notifier       *notifications.Notifier

	userRepo repository.UserRepository

	authService       *service.AuthService
	userService       *service.UserService
	venueService      *service.VenueService
	eventService      *service.EventService
	attendanceService *service.AttendanceService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil: caching, notifications and the Redis limiters are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}

	store := cache.NewStore(redisClient)
	userRepo := repository.NewUserRepository(db, store)
	venueRepo := repository.NewVenueRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("eventplanner-api"),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled),
		userRepo:       userRepo,
	}

	var notifier service.RSVPNotifier
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		notifier = server.notifier
	}

	server.authService = service.NewAuthService(userRepo, service.AuthConfig{
		Secret:     cfg.JWTSecret,
		ExpiresIn:  cfg.JWTExpiresIn,
		BcryptCost: cfg.BcryptCost,
	})
	server.userService = service.NewUserService(userRepo, cfg.BcryptCost)
	server.venueService = service.NewVenueService(venueRepo)
	server.eventService = service.NewEventService(eventRepo, venueRepo)
	server.attendanceService = service.NewAttendanceService(attendeeRepo, eventRepo, notifier)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// after requestid and context middleware
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected browser requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	if s.config.RateLimitEnabled {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: 15 * time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(response{
					Success: false,
					Message: "Too many requests from this IP, please try again later.",
					Code:    "RATE_LIMITED",
				})
			},
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Event Planner API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	authLimit := s.rateLimiter.Limit("auth", authRateLimit, authRateWindow)
	auth.Post("/register", authLimit, s.Register)
	auth.Post("/login", authLimit, s.Login)
	auth.Get("/me", s.AuthRequired(), s.GetMe)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Specific /user/my-events route before the generic /:id route
	events := api.Group("/events")
	events.Get("/", s.GetEvents)
	events.Get("/user/my-events", s.AuthRequired(), s.GetMyEvents)
	events.Get("/:id", s.GetEvent)
	events.Post("/", s.AuthRequired(), s.rateLimiter.Limit("create_event", eventCreateRateLimit, eventCreateWindow), s.CreateEvent)
	events.Put("/:id", s.AuthRequired(), s.UpdateEvent)
	events.Delete("/:id", s.AuthRequired(), s.DeleteEvent)

	venues := api.Group("/venues")
	venues.Get("/", s.GetVenues)
	venues.Get("/:id", s.GetVenue)
	venues.Post("/", s.AuthRequired(), s.RolesRequired(models.RoleAdmin, models.RoleOrganizer), s.CreateVenue)
	venues.Put("/:id", s.AuthRequired(), s.RolesRequired(models.RoleAdmin), s.UpdateVenue)
	venues.Delete("/:id", s.AuthRequired(), s.RolesRequired(models.RoleAdmin), s.DeleteVenue)

	attendees := api.Group("/attendees")
	attendees.Get("/event/:eventId", s.GetEventAttendees)
	attendees.Post("/rsvp", s.AuthRequired(), s.RSVP)
	attendees.Get("/my-rsvps", s.AuthRequired(), s.GetMyRSVPs)
	attendees.Get("/status/:eventId", s.AuthRequired(), s.GetRSVPStatus)
	attendees.Delete("/cancel/:eventId", s.AuthRequired(), s.CancelRSVP)

	users := api.Group("/users", s.AuthRequired())
	users.Get("/profile", s.GetProfile)
	users.Put("/update-profile", s.UpdateProfile)
	users.Put("/update-password", s.UpdatePassword)

	app.Use(func(c *fiber.Ctx) error {
		return s.fail(c, models.NewNotFoundError("Route "+c.OriginalURL()))
	})
}

// NewApp builds the Fiber app with middleware and routes installed but does not listen.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Event Planner API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escape handlers, including recovered panics.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(response{
			Success: false,
			Message: fiberErr.Message,
		})
	}
	return s.fail(c, err)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: an unconfigured
// client reports "disabled" and does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Event Planner API",
		"status":  overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the HTTP server and closes the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
