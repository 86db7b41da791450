package service

import (
	"context"
	"strings"

	"eventplanner/internal/models"
	"eventplanner/internal/repository"
	"eventplanner/internal/validation"
)

type VenueService struct {
	venues repository.VenueRepository
}

type CreateVenueInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Location string `json:"location" validate:"required,min=5,max=255"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=100000"`
}

type UpdateVenueInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Location *string `json:"location" validate:"omitempty,min=5,max=255"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1,max=100000"`
}

func NewVenueService(venues repository.VenueRepository) *VenueService {
	return &VenueService{venues: venues}
}

func (s *VenueService) List(ctx context.Context) ([]models.Venue, error) {
	return s.venues.List(ctx)
}

func (s *VenueService) Get(ctx context.Context, id uint) (*models.Venue, error) {
	venue, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venue == nil {
		return nil, models.NewNotFoundError("Venue")
	}
	return venue, nil
}

// Create is open to admins and organizers.
func (s *VenueService) Create(ctx context.Context, actor *models.User, in CreateVenueInput) (*models.Venue, error) {
	if !actor.HasRole(models.RoleAdmin, models.RoleOrganizer) {
		return nil, models.NewAuthorizationError("Not authorized to create venues")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	venue := &models.Venue{Name: in.Name, Location: in.Location, Capacity: in.Capacity}
	if err := s.venues.Create(ctx, venue); err != nil {
		return nil, err
	}
	return s.Get(ctx, venue.ID)
}

func (s *VenueService) Update(ctx context.Context, actor *models.User, id uint, in UpdateVenueInput) (*models.Venue, error) {
	if !actor.IsAdmin() {
		return nil, models.NewAuthorizationError("Not authorized to update venues")
	}

	in.Name = trimPtr(in.Name, false)
	in.Location = trimPtr(in.Location, false)
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	res, err := s.venues.Update(ctx, id, repository.VenueChanges{
		Name:     in.Name,
		Location: in.Location,
		Capacity: in.Capacity,
	})
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, models.NewNotFoundError("Venue")
	}
	return s.Get(ctx, id)
}

// Delete refuses while any draft or published event references the venue. The count and
// the delete are separate statements, so an event created in between is not seen.
func (s *VenueService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if !actor.IsAdmin() {
		return models.NewAuthorizationError("Not authorized to delete venues")
	}

	active, err := s.venues.CountActiveEvents(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return models.NewBusinessRuleError("Cannot delete venue with active events")
	}

	res, err := s.venues.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !res.Matched {
		return models.NewNotFoundError("Venue")
	}
	return nil
}
