package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/internal/integrity"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

const dateLayout = "2006-01-02"

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, actor *entities.User, filter dto.RequestFilter) ([]dto.RequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairRequest, error)
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.RepairRequest) error
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.RepairRequest) error
	DeleteRequestInTx(ctx context.Context, tx pgx.Tx, id uint64) error
}

type requestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &requestRepository{storage: storage}
}

var requestJoinFields = []string{
	"r.id", "r.start_date", "r.problem_description",
	"r.completion_date", "r.repair_parts", "r.created_at", "r.updated_at",
	"et.id", "et.name",
	"em.id", "em.equipment_type_id", "em.name",
	"it.id", "it.name",
	"rs.id", "rs.name", "rs.is_final",
	"c.id", "c.fio",
	"m.id", "m.fio",
}

func requestJoinBuilder() sq.SelectBuilder {
	return sq.Select(requestJoinFields...).
		From("repair_requests r").
		Join("equipment_models em ON em.id = r.equipment_model_id").
		Join("equipment_types et ON et.id = em.equipment_type_id").
		Join("issue_types it ON it.id = r.issue_type_id").
		Join("request_statuses rs ON rs.id = r.status_id").
		Join("users c ON c.id = r.client_id").
		LeftJoin("users m ON m.id = r.master_id").
		PlaceholderFormat(sq.Dollar)
}

func scanRequestDTO(row pgx.Row) (*dto.RequestDTO, error) {
	var (
		req            dto.RequestDTO
		startDate      time.Time
		completionDate *time.Time
		repairParts    *string
		createdAt      time.Time
		updatedAt      time.Time
		masterID       *uint64
		masterFio      *string
	)
	err := row.Scan(
		&req.ID, &startDate, &req.ProblemDescription,
		&completionDate, &repairParts, &createdAt, &updatedAt,
		&req.EquipmentType.ID, &req.EquipmentType.Name,
		&req.EquipmentModel.ID, &req.EquipmentModel.EquipmentTypeID, &req.EquipmentModel.Name,
		&req.IssueType.ID, &req.IssueType.Name,
		&req.Status.ID, &req.Status.Name, &req.Status.IsFinal,
		&req.Client.ID, &req.Client.Fio,
		&masterID, &masterFio,
	)
	if err != nil {
		return nil, err
	}

	req.StartDate = startDate.Format(dateLayout)
	if completionDate != nil {
		req.CompletionDate = null.StringFrom(completionDate.Format(dateLayout))
	}
	if repairParts != nil {
		req.RepairParts = null.StringFromPtr(repairParts)
	}
	if masterID != nil && masterFio != nil {
		req.Master = &dto.ShortUserDTO{ID: *masterID, Fio: *masterFio}
	}
	req.CreatedAt = createdAt.Format(time.RFC3339)
	req.UpdatedAt = updatedAt.Format(time.RFC3339)
	return &req, nil
}

// applyVisibility сужает выборку до заявок, видимых актору:
// Специалист — только назначенные ему, Заказчик — только свои.
func applyVisibility(builder sq.SelectBuilder, actor *entities.User) sq.SelectBuilder {
	switch {
	case actor.IsSpecialist():
		return builder.Where(sq.Eq{"r.master_id": actor.ID})
	case actor.IsClient():
		return builder.Where(sq.Eq{"r.client_id": actor.ID})
	default:
		return builder
	}
}

func applyFilter(builder sq.SelectBuilder, filter dto.RequestFilter) sq.SelectBuilder {
	if filter.Search != "" {
		if id, err := strconv.ParseUint(filter.Search, 10, 64); err == nil {
			builder = builder.Where(sq.Eq{"r.id": id})
		} else {
			builder = builder.Where(sq.ILike{"r.problem_description": "%" + filter.Search + "%"})
		}
	}
	if filter.StatusID != 0 {
		builder = builder.Where(sq.Eq{"r.status_id": filter.StatusID})
	}
	if filter.EquipmentTypeID != 0 {
		builder = builder.Where(sq.Eq{"em.equipment_type_id": filter.EquipmentTypeID})
	}
	if filter.IssueTypeID != 0 {
		builder = builder.Where(sq.Eq{"r.issue_type_id": filter.IssueTypeID})
	}
	return builder
}

func (r *requestRepository) GetRequests(ctx context.Context, actor *entities.User, filter dto.RequestFilter) ([]dto.RequestDTO, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").
		From("repair_requests r").
		Join("equipment_models em ON em.id = r.equipment_model_id").
		PlaceholderFormat(sq.Dollar)
	countBuilder = applyFilter(applyVisibility(countBuilder, actor), filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта заявок: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := applyFilter(applyVisibility(requestJoinBuilder(), actor), filter).
		OrderBy("r.created_at DESC", "r.id DESC")
	if filter.Limit != 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]dto.RequestDTO, 0)
	for rows.Next() {
		req, err := scanRequestDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, total, rows.Err()
}

func (r *requestRepository) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query, args, err := requestJoinBuilder().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса заявки: %w", err)
	}
	req, err := scanRequestDTO(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// FindRequestForUpdateInTx блокирует строку заявки до конца транзакции,
// чтобы проверка прав и запись видели одно и то же состояние.
func (r *requestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RepairRequest, error) {
	var req entities.RepairRequest
	err := tx.QueryRow(ctx,
		`SELECT id, start_date, equipment_model_id, issue_type_id, problem_description,
		        status_id, completion_date, repair_parts, master_id, client_id,
		        created_at, updated_at
		 FROM repair_requests WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(
		&req.ID, &req.StartDate, &req.EquipmentModelID, &req.IssueTypeID, &req.ProblemDescription,
		&req.StatusID, &req.CompletionDate, &req.RepairParts, &req.MasterID, &req.ClientID,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.RepairRequest) error {
	guard := integrity.NewGuard(&pgResolver{q: tx})
	now := time.Now()
	if err := guard.CheckRequest(ctx, req, now); err != nil {
		return err
	}

	err := tx.QueryRow(ctx,
		`INSERT INTO repair_requests
		 (start_date, equipment_model_id, issue_type_id, problem_description,
		  status_id, completion_date, repair_parts, master_id, client_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		 RETURNING id, created_at`,
		req.StartDate, req.EquipmentModelID, req.IssueTypeID, req.ProblemDescription,
		req.StatusID, req.CompletionDate, req.RepairParts, req.MasterID, req.ClientID, now,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *requestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, req *entities.RepairRequest) error {
	guard := integrity.NewGuard(&pgResolver{q: tx})
	if err := guard.CheckRequest(ctx, req, time.Now()); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE repair_requests SET
		 start_date = $1, equipment_model_id = $2, issue_type_id = $3, problem_description = $4,
		 status_id = $5, completion_date = $6, repair_parts = $7, master_id = $8, client_id = $9,
		 updated_at = $10
		 WHERE id = $11`,
		req.StartDate, req.EquipmentModelID, req.IssueTypeID, req.ProblemDescription,
		req.StatusID, req.CompletionDate, req.RepairParts, req.MasterID, req.ClientID,
		req.UpdatedAt, req.ID,
	)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRequestInTx удаляет заявку вместе с комментариями.
// Тот же каскад объявлен и на уровне схемы.
func (r *requestRepository) DeleteRequestInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM request_comments WHERE request_id = $1`, id); err != nil {
		return translatePgError(err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM repair_requests WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
