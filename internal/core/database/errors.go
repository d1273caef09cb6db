package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nattapongw/fieldservice/internal"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes. Constraint failures are detected by code,
// never by matching message text.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == CodeForeignKeyViolation
}

// Translate maps a storage error onto the API error taxonomy. resource
// is the human noun used in messages ("department", "ticket").
func Translate(err error, resource string) *internal.AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return internal.NewNotFoundError(
			fmt.Sprintf("%s not found", resource),
			internal.ErrCodeRecordNotFound,
		)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation:
			return internal.NewValidationError(
				fmt.Sprintf("%s already exists", resource),
				internal.ErrCodeDuplicateRecord,
			)
		case CodeForeignKeyViolation:
			return internal.NewValidationError(
				fmt.Sprintf("%s is still referenced by other records", resource),
				internal.ErrCodeRecordInUse,
			)
		}
	}

	return internal.NewDatabaseError(
		fmt.Sprintf("database error while accessing %s", resource),
		err,
	)
}
