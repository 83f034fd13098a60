package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

const (
	statusTable  = "request_statuses"
	statusFields = "id, name, is_final"
)

type StatusRepositoryInterface interface {
	GetStatuses(ctx context.Context) ([]dto.StatusDTO, error)
	FindStatus(ctx context.Context, id uint64) (*dto.StatusDTO, error)
	FindStatusByName(ctx context.Context, name string) (*dto.StatusDTO, error)
	FindDefaultStatus(ctx context.Context) (*dto.StatusDTO, error)
}

type statusRepository struct{ storage *pgxpool.Pool }

func NewStatusRepository(storage *pgxpool.Pool) StatusRepositoryInterface {
	return &statusRepository{storage: storage}
}

func (r *statusRepository) GetStatuses(ctx context.Context) ([]dto.StatusDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", statusFields, statusTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка статусов: %w", err)
	}
	defer rows.Close()

	statuses := make([]dto.StatusDTO, 0)
	for rows.Next() {
		var s dto.StatusDTO
		if err := rows.Scan(&s.ID, &s.Name, &s.IsFinal); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *statusRepository) FindStatus(ctx context.Context, id uint64) (*dto.StatusDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", statusFields, statusTable)
	var s dto.StatusDTO
	err := r.storage.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.IsFinal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *statusRepository) FindStatusByName(ctx context.Context, name string) (*dto.StatusDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = $1", statusFields, statusTable)
	var s dto.StatusDTO
	err := r.storage.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name, &s.IsFinal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindDefaultStatus: предпочтительно статус «Новая заявка»,
// иначе первый не финальный по id. Отсутствие — ошибка конфигурации.
func (r *statusRepository) FindDefaultStatus(ctx context.Context) (*dto.StatusDTO, error) {
	status, err := r.FindStatusByName(ctx, "Новая заявка")
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_final = FALSE ORDER BY id LIMIT 1", statusFields, statusTable)
	var s dto.StatusDTO
	err = r.storage.QueryRow(ctx, query).Scan(&s.ID, &s.Name, &s.IsFinal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("в системе не настроен ни один не финальный статус заявки")
		}
		return nil, err
	}
	return &s, nil
}
