package persistent

import (
	"errors"

	"stackvault/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalid_regular_expression
const pgInvalidRegex = "2201B"

// translate maps gorm errors onto domain error kinds. notFound is the
// client-facing message for a missing record.
func translate(err error, notFound string) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return entity.NewError(entity.ErrConflict, "Duplicate key")
	case errors.As(err, &pgErr) && pgErr.Code == pgInvalidRegex:
		return entity.Validation("Invalid search pattern")
	}
	return err
}
