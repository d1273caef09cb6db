package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/fleet"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) GetAll(ctx context.Context, params pagination.Params, filters fleet.Filters) ([]*fleetDatamodel.Vehicle, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&fleetDatamodel.Vehicle{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if filters.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", filters.AssigneeID)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "plate_number", "model")
	}

	var vehicles []*fleetDatamodel.Vehicle
	desc, err := pagination.List(tx, "plate_number ASC", &vehicles, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "vehicle")
	}
	return vehicles, desc, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*fleetDatamodel.Vehicle, error) {
	var v fleetDatamodel.Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
		}
		return nil, database.Translate(err, "vehicle")
	}
	return &v, nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *fleetDatamodel.Vehicle) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return database.Translate(err, "vehicle")
	}
	return nil
}

func (r *VehicleRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&fleetDatamodel.Vehicle{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "vehicle")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&fleetDatamodel.Vehicle{})
	if res.Error != nil {
		return database.Translate(res.Error, "vehicle")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("vehicle not found", internal.ErrCodeVehicleNotFound)
	}
	return nil
}

func (r *VehicleRepository) CreatePosition(ctx context.Context, pos *fleetDatamodel.VehiclePosition) error {
	if err := r.db.WithContext(ctx).Create(pos).Error; err != nil {
		return database.Translate(err, "vehicle position")
	}
	return nil
}

// GetPositions returns the track newest-first so page one is the
// vehicle's latest known location.
func (r *VehicleRepository) GetPositions(ctx context.Context, vehicleID string, params pagination.Params) ([]*fleetDatamodel.VehiclePosition, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).
		Model(&fleetDatamodel.VehiclePosition{}).
		Where("vehicle_id = ?", vehicleID)

	var positions []*fleetDatamodel.VehiclePosition
	desc, err := pagination.List(tx, "recorded_at DESC", &positions, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "vehicle position")
	}
	return positions, desc, nil
}
