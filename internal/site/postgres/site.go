package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/site"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) GetAll(ctx context.Context, params pagination.Params, filters site.Filters) ([]*siteDatamodel.Site, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&siteDatamodel.Site{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Province != "" {
		tx = tx.Where("province = ?", filters.Province)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "name", "province", "address")
	}

	var sites []*siteDatamodel.Site
	desc, err := pagination.List(tx, "code ASC", &sites, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "site")
	}
	return sites, desc, nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id string) (*siteDatamodel.Site, error) {
	var s siteDatamodel.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("site not found", internal.ErrCodeSiteNotFound)
		}
		return nil, database.Translate(err, "site")
	}
	return &s, nil
}

func (r *SiteRepository) Create(ctx context.Context, s *siteDatamodel.Site) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return database.Translate(err, "site")
	}
	return nil
}

// FindOrCreate upserts by the code natural key. ON CONFLICT DO NOTHING
// followed by a re-select keeps concurrent callers on a single row.
func (r *SiteRepository) FindOrCreate(ctx context.Context, s *siteDatamodel.Site) (*siteDatamodel.Site, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(s).Error
	if err != nil {
		return nil, database.Translate(err, "site")
	}

	var out siteDatamodel.Site
	if err := r.db.WithContext(ctx).Where("code = ?", s.Code).First(&out).Error; err != nil {
		return nil, database.Translate(err, "site")
	}
	return &out, nil
}

func (r *SiteRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&siteDatamodel.Site{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "site")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("site not found", internal.ErrCodeSiteNotFound)
	}
	return nil
}

func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&siteDatamodel.Site{})
	if res.Error != nil {
		return database.Translate(res.Error, "site")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("site not found", internal.ErrCodeSiteNotFound)
	}
	return nil
}
