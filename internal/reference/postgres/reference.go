package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	referenceDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/reference"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/reference"
)

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) GetAllMerchandise(ctx context.Context, params pagination.Params, filters reference.Filters) ([]*referenceDatamodel.Merchandise, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&referenceDatamodel.Merchandise{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "name")
	}

	var items []*referenceDatamodel.Merchandise
	desc, err := pagination.List(tx, "code ASC", &items, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "merchandise")
	}
	return items, desc, nil
}

func (r *ReferenceRepository) GetMerchandiseByID(ctx context.Context, id string) (*referenceDatamodel.Merchandise, error) {
	var item referenceDatamodel.Merchandise
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("merchandise not found", internal.ErrCodeRecordNotFound)
		}
		return nil, database.Translate(err, "merchandise")
	}
	return &item, nil
}

func (r *ReferenceRepository) GetAllPackageServices(ctx context.Context, params pagination.Params, filters reference.Filters) ([]*referenceDatamodel.PackageService, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&referenceDatamodel.PackageService{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "name")
	}

	var items []*referenceDatamodel.PackageService
	desc, err := pagination.List(tx, "code ASC", &items, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "package service")
	}
	return items, desc, nil
}

func (r *ReferenceRepository) GetPackageServiceByID(ctx context.Context, id string) (*referenceDatamodel.PackageService, error) {
	var item referenceDatamodel.PackageService
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("package service not found", internal.ErrCodeRecordNotFound)
		}
		return nil, database.Translate(err, "package service")
	}
	return &item, nil
}
