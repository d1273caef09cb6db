package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nattapongw/fieldservice/internal"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
)

// groupLimit caps each result group; global search is a quick lookup,
// not a paginated listing.
const groupLimit = 5

type Results struct {
	Query       string                            `json:"query"`
	Departments []*departmentDatamodel.Department `json:"departments"`
	Sites       []*siteDatamodel.Site             `json:"sites"`
	Employees   []*employeeDatamodel.Employee     `json:"employees"`
	Tickets     []*ticketDatamodel.Ticket         `json:"tickets"`
}

type RepositoryAPI interface {
	SearchDepartments(ctx context.Context, q string, limit int) ([]*departmentDatamodel.Department, error)
	SearchSites(ctx context.Context, q string, limit int) ([]*siteDatamodel.Site, error)
	SearchEmployees(ctx context.Context, q string, limit int) ([]*employeeDatamodel.Employee, error)
	SearchTickets(ctx context.Context, q string, limit int) ([]*ticketDatamodel.Ticket, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GlobalSearch fans the query out over the searchable resources and
// returns the grouped hits. Groups are fetched one after another; the
// per-group limit keeps the whole thing cheap.
func (s *Service) GlobalSearch(ctx context.Context, q string) (*Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, internal.NewValidationFieldError("q", "q is required", internal.ErrCodeValidationFailed)
	}

	results := &Results{
		Query:       q,
		Departments: []*departmentDatamodel.Department{},
		Sites:       []*siteDatamodel.Site{},
		Employees:   []*employeeDatamodel.Employee{},
		Tickets:     []*ticketDatamodel.Ticket{},
	}

	departments, err := s.repo.SearchDepartments(ctx, q, groupLimit)
	if err != nil {
		s.logger.Error("global search: departments failed", "q", q, "error", err)
		return nil, err
	}
	results.Departments = departments

	sites, err := s.repo.SearchSites(ctx, q, groupLimit)
	if err != nil {
		s.logger.Error("global search: sites failed", "q", q, "error", err)
		return nil, err
	}
	results.Sites = sites

	employees, err := s.repo.SearchEmployees(ctx, q, groupLimit)
	if err != nil {
		s.logger.Error("global search: employees failed", "q", q, "error", err)
		return nil, err
	}
	results.Employees = employees

	tickets, err := s.repo.SearchTickets(ctx, q, groupLimit)
	if err != nil {
		s.logger.Error("global search: tickets failed", "q", q, "error", err)
		return nil, err
	}
	results.Tickets = tickets

	return results, nil
}
