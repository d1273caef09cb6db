package postgres

import (
	"database/sql"
	"errors"

	"github.com/nattapongw/fieldservice/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetActorBySubject loads the employee mapped to a token subject
// together with its role. A LEFT JOIN keeps role-less employees
// resolvable at the lowest level.
func (r *Repository) GetActorBySubject(subject string) (*auth.Actor, error) {
	var actor auth.Actor
	query := `SELECT e.id, e.code, e.full_name, COALESCE(e.email, ''),
	                 COALESCE(ro.code, ''), COALESCE(ro.name, ''), COALESCE(ro.level, 0),
	                 e.department_id, e.is_active
	          FROM employees e
	          LEFT JOIN roles ro ON ro.id = e.role_id
	          WHERE e.auth_subject = ?`

	row := r.db.Raw(query, subject).Row()
	err := row.Scan(
		&actor.EmployeeID,
		&actor.Code,
		&actor.FullName,
		&actor.Email,
		&actor.RoleCode,
		&actor.RoleName,
		&actor.RoleLevel,
		&actor.DepartmentID,
		&actor.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &actor, nil
}
