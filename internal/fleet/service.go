package fleet

import (
	"context"
	"log/slog"
	"time"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*fleetDatamodel.Vehicle, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*fleetDatamodel.Vehicle, error)
	Create(ctx context.Context, v *fleetDatamodel.Vehicle) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	CreatePosition(ctx context.Context, pos *fleetDatamodel.VehiclePosition) error
	GetPositions(ctx context.Context, vehicleID string, params pagination.Params) ([]*fleetDatamodel.VehiclePosition, pagination.Descriptor, error)
}

var writableColumns = sanitize.MustWritableColumns(&fleetDatamodel.Vehicle{})

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*fleetDatamodel.Vehicle, pagination.Descriptor, error) {
	vehicles, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list vehicles", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return vehicles, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*fleetDatamodel.Vehicle, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreateVehicleDTO) (*fleetDatamodel.Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	v := dto.ToModel()
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error("failed to create vehicle", "plate_number", dto.PlateNumber, "error", err)
		return nil, err
	}

	s.logger.Info("vehicle created", "vehicle_id", v.ID, "plate_number", v.PlateNumber)
	return v, nil
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*fleetDatamodel.Vehicle, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update vehicle", "vehicle_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete vehicle", "vehicle_id", id, "error", err)
		return err
	}

	s.logger.Info("vehicle deleted", "vehicle_id", id)
	return nil
}

// RecordPosition appends a GPS fix for the vehicle. Positions are never
// updated or deleted through the API.
func (s *Service) RecordPosition(ctx context.Context, vehicleID string, dto *RecordPositionDTO) (*fleetDatamodel.VehiclePosition, error) {
	if err := validation.RequireUUID(vehicleID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	// confirm the vehicle exists so a stray device id gets a 404, not an
	// orphan row
	if _, err := s.repo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	pos := dto.ToModel(vehicleID, s.now())
	if err := s.repo.CreatePosition(ctx, pos); err != nil {
		s.logger.Error("failed to record position", "vehicle_id", vehicleID, "error", err)
		return nil, err
	}

	return pos, nil
}

func (s *Service) GetPositions(ctx context.Context, vehicleID string, params pagination.Params) ([]*fleetDatamodel.VehiclePosition, pagination.Descriptor, error) {
	if err := validation.RequireUUID(vehicleID); err != nil {
		return nil, pagination.Descriptor{}, err
	}

	if _, err := s.repo.GetByID(ctx, vehicleID); err != nil {
		return nil, pagination.Descriptor{}, err
	}

	return s.repo.GetPositions(ctx, vehicleID, params)
}
