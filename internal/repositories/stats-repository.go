package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
)

// StatsRequestRow — плоский срез заявки для пересчёта статистики.
type StatsRequestRow struct {
	EquipmentTypeName string
	IssueTypeName     string
	StatusIsFinal     bool
	StartDate         time.Time
	CompletionDate    *time.Time
}

type StatsRepositoryInterface interface {
	GetRequestRows(ctx context.Context) ([]StatsRequestRow, error)
	GetSpecialistLoad(ctx context.Context) ([]dto.SpecialistLoadDTO, error)
}

type statsRepository struct {
	storage *pgxpool.Pool
}

func NewStatsRepository(storage *pgxpool.Pool) StatsRepositoryInterface {
	return &statsRepository{storage: storage}
}

func (r *statsRepository) GetRequestRows(ctx context.Context) ([]StatsRequestRow, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT et.name, it.name, rs.is_final, r.start_date, r.completion_date
		 FROM repair_requests r
		 JOIN equipment_models em ON em.id = r.equipment_model_id
		 JOIN equipment_types et ON et.id = em.equipment_type_id
		 JOIN issue_types it ON it.id = r.issue_type_id
		 JOIN request_statuses rs ON rs.id = r.status_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения данных статистики: %w", err)
	}
	defer rows.Close()

	result := make([]StatsRequestRow, 0)
	for rows.Next() {
		var row StatsRequestRow
		if err := rows.Scan(&row.EquipmentTypeName, &row.IssueTypeName, &row.StatusIsFinal, &row.StartDate, &row.CompletionDate); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetSpecialistLoad — число незакрытых заявок на каждого исполнителя.
func (r *statsRepository) GetSpecialistLoad(ctx context.Context) ([]dto.SpecialistLoadDTO, error) {
	query, args, err := sq.Select("u.id", "u.fio", "COUNT(r.id)").
		From("users u").
		Join("repair_requests r ON r.master_id = u.id").
		Join("request_statuses rs ON rs.id = r.status_id").
		Where(sq.Eq{"rs.is_final": false}).
		GroupBy("u.id", "u.fio").
		OrderBy("COUNT(r.id) DESC", "u.fio").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса нагрузки специалистов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	load := make([]dto.SpecialistLoadDTO, 0)
	for rows.Next() {
		var item dto.SpecialistLoadDTO
		if err := rows.Scan(&item.MasterID, &item.MasterFio, &item.ActiveRequests); err != nil {
			return nil, err
		}
		load = append(load, item)
	}
	return load, rows.Err()
}
