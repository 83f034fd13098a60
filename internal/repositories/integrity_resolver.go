package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

// pgResolver — integrity.Resolver поверх текущей транзакции.
// Чтение идёт через тот же querier, что и мутация, поэтому guard видит
// незакоммиченные строки этой транзакции.
type pgResolver struct {
	q querier
}

func (r *pgResolver) RoleNameByUserID(ctx context.Context, userID uint64) (string, error) {
	var roleName string
	query := `SELECT ur.name FROM users u JOIN user_roles ur ON u.role_id = ur.id WHERE u.id = $1`
	if err := r.q.QueryRow(ctx, query, userID).Scan(&roleName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return roleName, nil
}

func (r *pgResolver) StatusIsFinal(ctx context.Context, statusID uint64) (bool, error) {
	var isFinal bool
	if err := r.q.QueryRow(ctx, `SELECT is_final FROM request_statuses WHERE id = $1`, statusID).Scan(&isFinal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrNotFound
		}
		return false, err
	}
	return isFinal, nil
}
