package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

// issueTypeMaxLen — длина поля name в issue_types; описание проблемы
// нормализуется до этого размера.
const issueTypeMaxLen = 255

type CatalogRepositoryInterface interface {
	GetEquipmentTypes(ctx context.Context) ([]dto.EquipmentTypeDTO, error)
	FindEquipmentType(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error)
	GetIssueTypes(ctx context.Context) ([]dto.IssueTypeDTO, error)
	FindIssueType(ctx context.Context, id uint64) (*dto.IssueTypeDTO, error)
	GetOrCreateEquipmentModelInTx(ctx context.Context, tx pgx.Tx, equipmentTypeID uint64, name string) (*dto.EquipmentModelDTO, error)
	GetOrCreateIssueTypeInTx(ctx context.Context, tx pgx.Tx, problemDescription string) (*dto.IssueTypeDTO, error)
}

type catalogRepository struct {
	storage *pgxpool.Pool
}

func NewCatalogRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &catalogRepository{storage: storage}
}

func (r *catalogRepository) GetEquipmentTypes(ctx context.Context) ([]dto.EquipmentTypeDTO, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name FROM equipment_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения типов оборудования: %w", err)
	}
	defer rows.Close()

	items := make([]dto.EquipmentTypeDTO, 0)
	for rows.Next() {
		var item dto.EquipmentTypeDTO
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *catalogRepository) FindEquipmentType(ctx context.Context, id uint64) (*dto.EquipmentTypeDTO, error) {
	var item dto.EquipmentTypeDTO
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM equipment_types WHERE id = $1`, id).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) GetIssueTypes(ctx context.Context) ([]dto.IssueTypeDTO, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name FROM issue_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения типов неисправностей: %w", err)
	}
	defer rows.Close()

	items := make([]dto.IssueTypeDTO, 0)
	for rows.Next() {
		var item dto.IssueTypeDTO
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *catalogRepository) FindIssueType(ctx context.Context, id uint64) (*dto.IssueTypeDTO, error) {
	var item dto.IssueTypeDTO
	err := r.storage.QueryRow(ctx, `SELECT id, name FROM issue_types WHERE id = $1`, id).Scan(&item.ID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetOrCreateEquipmentModelInTx находит модель по паре (тип, название)
// или создаёт новую. Пара уникальна на уровне БД, поэтому гонка двух
// создателей разрешается ON CONFLICT.
func (r *catalogRepository) GetOrCreateEquipmentModelInTx(ctx context.Context, tx pgx.Tx, equipmentTypeID uint64, name string) (*dto.EquipmentModelDTO, error) {
	cleaned := strings.TrimSpace(name)

	var model dto.EquipmentModelDTO
	err := tx.QueryRow(ctx,
		`SELECT id, equipment_type_id, name FROM equipment_models WHERE equipment_type_id = $1 AND name = $2`,
		equipmentTypeID, cleaned,
	).Scan(&model.ID, &model.EquipmentTypeID, &model.Name)
	if err == nil {
		return &model, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO equipment_models (equipment_type_id, name) VALUES ($1, $2)
		 ON CONFLICT (equipment_type_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, equipment_type_id, name`,
		equipmentTypeID, cleaned,
	).Scan(&model.ID, &model.EquipmentTypeID, &model.Name)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &model, nil
}

// NormalizeIssueTypeName: пустое описание → «Не указано»,
// длинное — обрезается с многоточием до размера справочника.
func NormalizeIssueTypeName(problemDescription string) string {
	text := strings.TrimSpace(problemDescription)
	if text == "" {
		return "Не указано"
	}
	if len([]rune(text)) <= issueTypeMaxLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:issueTypeMaxLen-3]), " ") + "..."
}

func (r *catalogRepository) GetOrCreateIssueTypeInTx(ctx context.Context, tx pgx.Tx, problemDescription string) (*dto.IssueTypeDTO, error) {
	name := NormalizeIssueTypeName(problemDescription)

	var item dto.IssueTypeDTO
	err := tx.QueryRow(ctx, `SELECT id, name FROM issue_types WHERE name = $1`, name).Scan(&item.ID, &item.Name)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO issue_types (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name`,
		name,
	).Scan(&item.ID, &item.Name)
	if err != nil {
		return nil, translatePgError(err)
	}
	return &item, nil
}
