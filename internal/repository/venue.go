package repository

import (
	"context"

	"eventplanner/internal/models"

	"gorm.io/gorm"
)

// VenueRepository defines persistence operations for venues.
type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id uint) (*models.Venue, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.Venue, error)
	Update(ctx context.Context, id uint, changes VenueChanges) (Result, error)
	Delete(ctx context.Context, id uint) (Result, error)
	CountActiveEvents(ctx context.Context, id uint) (int64, error)
}

// VenueChanges carries the venue columns to update. Nil fields are left alone.
type VenueChanges struct {
	Name     *string
	Location *string
	Capacity *int
}

type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository returns a new VenueRepository implementation.
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

const venueColumns = `venues.*, (
	SELECT COUNT(*) FROM events e WHERE e.venue_id = venues.id AND e.status = 'published'
) AS active_events`

func (r *venueRepository) withStats(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Venue{}).Select(venueColumns)
}

func (r *venueRepository) Create(ctx context.Context, venue *models.Venue) error {
	return wrapError(r.db.WithContext(ctx).Create(venue).Error)
}

func (r *venueRepository) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	if err := r.withStats(ctx).Where("venues.id = ?", id).First(&venue).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &venue, nil
}

func (r *venueRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Venue{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *venueRepository) List(ctx context.Context) ([]models.Venue, error) {
	venues := make([]models.Venue, 0)
	if err := r.withStats(ctx).Order("venues.name ASC").Find(&venues).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return venues, nil
}

func (r *venueRepository) Update(ctx context.Context, id uint, changes VenueChanges) (Result, error) {
	cols := make(map[string]any, 3)
	if changes.Name != nil {
		cols["name"] = *changes.Name
	}
	if changes.Location != nil {
		cols["location"] = *changes.Location
	}
	if changes.Capacity != nil {
		cols["capacity"] = *changes.Capacity
	}
	if len(cols) == 0 {
		ok, err := r.Exists(ctx, id)
		return Result{Matched: ok}, err
	}
	return resultOf(r.db.WithContext(ctx).Model(&models.Venue{}).Where("id = ?", id).Updates(cols))
}

func (r *venueRepository) Delete(ctx context.Context, id uint) (Result, error) {
	return resultOf(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Venue{}))
}

// CountActiveEvents counts draft and published events held at the venue.
func (r *venueRepository) CountActiveEvents(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("venue_id = ? AND status IN ?", id, models.ActiveEventStatuses).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
