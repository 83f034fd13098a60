package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeFKViolation     = "23503"
	pgCodeCheckViolation  = "23514"
	pgCodeRaiseException  = "P0001"
)

// translatePgError переводит ошибки PostgreSQL в доменные.
// Триггеры целостности поднимают RAISE EXCEPTION (P0001); вместе с
// CHECK-ограничениями это последний рубеж против прямых записей в БД.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgCodeUniqueViolation:
		return apperrors.ErrConflict
	case pgCodeFKViolation:
		return apperrors.NewValidationError("ссылка на несуществующую запись: %s", pgErr.ConstraintName)
	case pgCodeCheckViolation, pgCodeRaiseException:
		return apperrors.NewIntegrityViolationError("%s", pgErr.Message)
	}
	return err
}
