package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal/core/database"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

// SearchRepository issues the per-group lookups behind global search.
// Each group reuses the same substring matching as the resource's own
// list endpoint, so a record found here is findable there too.
type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) SearchDepartments(ctx context.Context, q string, limit int) ([]*departmentDatamodel.Department, error) {
	items := make([]*departmentDatamodel.Department, 0, limit)
	tx := pagination.SearchILike(
		r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}),
		q, "code", "name_th", "name_en",
	)
	if err := tx.Order("code ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, database.Translate(err, "department")
	}
	return items, nil
}

func (r *SearchRepository) SearchSites(ctx context.Context, q string, limit int) ([]*siteDatamodel.Site, error) {
	items := make([]*siteDatamodel.Site, 0, limit)
	tx := pagination.SearchILike(
		r.db.WithContext(ctx).Model(&siteDatamodel.Site{}),
		q, "code", "name", "province", "address",
	)
	if err := tx.Order("code ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, database.Translate(err, "site")
	}
	return items, nil
}

func (r *SearchRepository) SearchEmployees(ctx context.Context, q string, limit int) ([]*employeeDatamodel.Employee, error) {
	items := make([]*employeeDatamodel.Employee, 0, limit)
	tx := pagination.SearchILike(
		r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}),
		q, "code", "full_name", "nickname", "email", "phone",
	)
	if err := tx.Order("code ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, database.Translate(err, "employee")
	}
	return items, nil
}

func (r *SearchRepository) SearchTickets(ctx context.Context, q string, limit int) ([]*ticketDatamodel.Ticket, error) {
	items := make([]*ticketDatamodel.Ticket, 0, limit)
	tx := pagination.SearchILike(
		r.db.WithContext(ctx).Model(&ticketDatamodel.Ticket{}),
		q, "code", "title", "detail",
	)
	if err := tx.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, database.Translate(err, "ticket")
	}
	return items, nil
}
