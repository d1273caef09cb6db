package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// Params are the caller-requested window. Zero values are never valid;
// ParseParams always returns a usable window.
type Params struct {
	Page  int
	Limit int
	Query string
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParseParams reads page, limit and q from the query string. Malformed
// or out-of-range numbers fall back to defaults instead of erroring, so
// a sloppy client still gets a sane first page.
func ParseParams(values url.Values) Params {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if pageStr := values.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
			p.Page = page
		}
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 1 {
			if limit > MaxLimit {
				limit = MaxLimit
			}
			p.Limit = limit
		}
	}

	p.Query = strings.TrimSpace(values.Get("q"))

	return p
}

// Descriptor is the pagination block returned alongside every list.
type Descriptor struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

func NewDescriptor(page, limit int, total int64) Descriptor {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Descriptor{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

var ErrOrderRequired = errors.New("pagination: explicit order is required")

// List runs the count and window queries for the filtered tx and fills
// dest with one page of rows. Pages beyond the data return an empty
// slice with accurate metadata. The order clause is mandatory; an
// unordered window is not a stable page.
func List(tx *gorm.DB, order string, dest interface{}, p Params) (Descriptor, error) {
	if strings.TrimSpace(order) == "" {
		return Descriptor{}, ErrOrderRequired
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Descriptor{}, err
	}

	err := tx.Session(&gorm.Session{}).
		Order(order).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(dest).Error
	if err != nil {
		return Descriptor{}, err
	}

	return NewDescriptor(p.Page, p.Limit, total), nil
}

// SearchILike appends a case-insensitive substring match over the given
// columns. LOWER(...) LIKE keeps it portable between postgres and the
// sqlite used in repository tests.
func SearchILike(tx *gorm.DB, query string, columns ...string) *gorm.DB {
	if query == "" || len(columns) == 0 {
		return tx
	}

	pattern := "%" + strings.ToLower(query) + "%"
	conditions := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conditions[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}

	return tx.Where(strings.Join(conditions, " OR "), args...)
}
